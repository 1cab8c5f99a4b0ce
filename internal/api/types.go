package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/catalog"
	"github.com/beautyshop/beautyshop-server/internal/clientbook"
	"github.com/beautyshop/beautyshop-server/internal/expense"
	"github.com/beautyshop/beautyshop-server/internal/user"
)

// Auth

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	BookingMode string    `json:"booking_mode"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Slug:        u.Slug,
		BookingMode: u.BookingMode,
	}
}

// Appointments

type CreateAppointmentRequest struct {
	ServiceID   *uuid.UUID `json:"service_id"`
	ClientName  string     `json:"client_name" validate:"required,min=2,max=100"`
	ClientPhone string     `json:"client_phone" validate:"required,min=5,max=20"`
	StartTime   time.Time  `json:"start_time" validate:"required"`
	EndTime     time.Time  `json:"end_time" validate:"required,gtfield=StartTime"`
	FinalPrice  *int       `json:"final_price" validate:"omitempty,min=0"`
	Notes       *string    `json:"notes" validate:"omitempty,max=500"`
}

type UpdateAppointmentRequest struct {
	ServiceID   *uuid.UUID `json:"service_id"`
	ClientName  *string    `json:"client_name" validate:"omitempty,min=2,max=100"`
	ClientPhone *string    `json:"client_phone" validate:"omitempty,min=5,max=20"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	FinalPrice  *int       `json:"final_price" validate:"omitempty,min=0"`
	Notes       *string    `json:"notes" validate:"omitempty,max=500"`
	Status      *string    `json:"status" validate:"omitempty,oneof=booked confirmed completed canceled"`
}

type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
	ClientName  string     `json:"client_name"`
	ClientPhone string     `json:"client_phone"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Status      string     `json:"status"`
	FinalPrice  *int       `json:"final_price,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		ServiceID:   a.ServiceID,
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      string(a.Status),
		FinalPrice:  a.FinalPrice,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Services

type CreateServiceRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Price       int    `json:"price" validate:"min=0"`
	DurationMin int    `json:"duration_min" validate:"required,min=5,max=480"`
	IsPublic    *bool  `json:"is_public"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Price       *int    `json:"price" validate:"omitempty,min=0"`
	DurationMin *int    `json:"duration_min" validate:"omitempty,min=5,max=480"`
	IsPublic    *bool   `json:"is_public"`
}

type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	DurationMin int       `json:"duration_min"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Price:       s.Price,
		DurationMin: s.DurationMin,
		IsPublic:    s.IsPublic,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Clients

type CreateClientRequest struct {
	Name  string  `json:"name" validate:"required,min=2,max=100"`
	Phone string  `json:"phone" validate:"required,min=5,max=20"`
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,min=5,max=20"`
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClientResponse(c *clientbook.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Expenses

type CreateExpenseRequest struct {
	Amount      int    `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=200"`
}

type ExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toExpenseResponse(e *expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// Public booking page

type BusyInterval struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type MasterPageResponse struct {
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	BookingMode string            `json:"booking_mode"`
	Services    []ServiceResponse `json:"services"`
	Busy        []BusyInterval    `json:"busy"`
}

type SlotsResponse struct {
	Slots []time.Time `json:"slots"`
}
