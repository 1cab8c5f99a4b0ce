package stats

import (
	"testing"
	"time"

	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/expense"
)

func price(v int) *int { return &v }

func TestBuildReport_Totals(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	appts := []appointment.Appointment{
		{Status: appointment.StatusCompleted, StartTime: now.AddDate(0, 0, -1), FinalPrice: price(2000)},
		{Status: appointment.StatusCompleted, StartTime: now.AddDate(0, -1, 0), FinalPrice: price(2500)},
		{Status: appointment.StatusCompleted, StartTime: now.AddDate(0, -2, 0)}, // no final price recorded
		{Status: appointment.StatusBooked, StartTime: now.AddDate(0, 0, 1), FinalPrice: price(3000)},
		{Status: appointment.StatusCanceled, StartTime: now.AddDate(0, 0, -3), FinalPrice: price(1000)},
	}
	expenses := []expense.Expense{
		{Amount: 500},
		{Amount: 300},
	}

	report := BuildReport(appts, expenses, now)

	if report.TotalAppointments != 5 || report.CompletedAppointments != 3 {
		t.Fatalf("appointment counts = %d/%d, want 5/3",
			report.TotalAppointments, report.CompletedAppointments)
	}
	if report.TotalRevenue != 4500 {
		t.Fatalf("revenue = %d, want 4500", report.TotalRevenue)
	}
	if report.TotalExpenses != 800 {
		t.Fatalf("expenses = %d, want 800", report.TotalExpenses)
	}
	if report.NetProfit != 3700 {
		t.Fatalf("net profit = %d, want 3700", report.NetProfit)
	}
}

func TestBuildReport_MonthlyBuckets(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	appts := []appointment.Appointment{
		{Status: appointment.StatusCompleted, StartTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), FinalPrice: price(1000)},
		{Status: appointment.StatusCompleted, StartTime: time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC), FinalPrice: price(1500)},
		{Status: appointment.StatusCompleted, StartTime: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), FinalPrice: price(700)},
		// Older than the report window.
		{Status: appointment.StatusCompleted, StartTime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), FinalPrice: price(9999)},
	}

	report := BuildReport(appts, nil, now)

	if len(report.MonthlyStats) != 6 {
		t.Fatalf("got %d monthly buckets, want 6", len(report.MonthlyStats))
	}
	if report.MonthlyStats[0].Month != "2025-10" {
		t.Fatalf("first bucket = %s, want 2025-10", report.MonthlyStats[0].Month)
	}

	last := report.MonthlyStats[5]
	if last.Month != "2026-03" || last.Appointments != 2 || last.Revenue != 2500 {
		t.Fatalf("march bucket = %+v, want 2 appointments / 2500 revenue", last)
	}

	jan := report.MonthlyStats[3]
	if jan.Month != "2026-01" || jan.Appointments != 1 || jan.Revenue != 700 {
		t.Fatalf("january bucket = %+v, want 1 appointment / 700 revenue", jan)
	}
}

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(nil, nil, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	if report.NetProfit != 0 || report.TotalRevenue != 0 {
		t.Fatalf("empty report has non-zero totals: %+v", report)
	}
	if len(report.MonthlyStats) != 6 {
		t.Fatalf("got %d monthly buckets, want 6", len(report.MonthlyStats))
	}
}
