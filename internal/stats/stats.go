// Package stats derives the earnings report from completed appointments and
// recorded expenses. It is a plain read path and never consults the
// scheduling engine.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/expense"
)

const reportMonths = 6

type MonthlyStat struct {
	Month        string `json:"month"`
	Appointments int    `json:"appointments"`
	Revenue      int    `json:"revenue"`
}

type Report struct {
	TotalAppointments     int           `json:"totalAppointments"`
	CompletedAppointments int           `json:"completedAppointments"`
	TotalRevenue          int           `json:"totalRevenue"`
	TotalExpenses         int           `json:"totalExpenses"`
	NetProfit             int           `json:"netProfit"`
	MonthlyStats          []MonthlyStat `json:"monthlyStats"`
}

type AppointmentSource interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter appointment.ListFilter) ([]appointment.Appointment, error)
}

type ExpenseSource interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]expense.Expense, error)
}

type Service struct {
	appointments AppointmentSource
	expenses     ExpenseSource
}

func NewService(appointments AppointmentSource, expenses ExpenseSource) *Service {
	return &Service{
		appointments: appointments,
		expenses:     expenses,
	}
}

func (s *Service) Report(ctx context.Context, ownerID uuid.UUID, now time.Time) (*Report, error) {
	appts, err := s.appointments.ListByOwner(ctx, ownerID, appointment.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	expenses, err := s.expenses.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return BuildReport(appts, expenses, now), nil
}

// BuildReport aggregates totals and a trailing monthly breakdown. Revenue
// counts only completed appointments with a recorded final price.
func BuildReport(appts []appointment.Appointment, expenses []expense.Expense, now time.Time) *Report {
	report := &Report{TotalAppointments: len(appts)}

	completed := make([]appointment.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status != appointment.StatusCompleted {
			continue
		}
		completed = append(completed, a)
		if a.FinalPrice != nil {
			report.TotalRevenue += *a.FinalPrice
		}
	}
	report.CompletedAppointments = len(completed)
	for _, e := range expenses {
		report.TotalExpenses += e.Amount
	}
	report.NetProfit = report.TotalRevenue - report.TotalExpenses

	report.MonthlyStats = make([]MonthlyStat, 0, reportMonths)
	for i := reportMonths - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		monthEnd := monthStart.AddDate(0, 1, 0)

		stat := MonthlyStat{Month: monthStart.Format("2006-01")}
		for _, a := range completed {
			if a.StartTime.Before(monthStart) || !a.StartTime.Before(monthEnd) {
				continue
			}
			stat.Appointments++
			if a.FinalPrice != nil {
				stat.Revenue += *a.FinalPrice
			}
		}
		report.MonthlyStats = append(report.MonthlyStats, stat)
	}

	return report
}
