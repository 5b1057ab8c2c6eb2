package user

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	rateDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/rate"
	userDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/user"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Rate is one row of a user's append-only hourly rate history.
type Rate struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	HourlyRateMAD float64   `json:"hourly_rate_mad"`
	EffectiveFrom time.Time `json:"effective_from"`
	CreatedAt     time.Time `json:"created_at"`
}

// Response is the serialized user shape. The rate fields are present but null
// unless the requester passes the rate gate.
type Response struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone"`
	IsActive          bool       `json:"is_active"`
	Roles             []string   `json:"roles,omitempty"`
	HourlyRateMAD     *float64   `json:"hourly_rate_mad"`
	RateEffectiveFrom *time.Time `json:"rate_effective_from"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewResponse serializes a user for the requesting actor, nulling the hourly
// rate and its effective date when the requester does not pass the rate gate.
// Self-view grants nothing here: a collaborateur sees their own rate as null.
func NewResponse(u *User, currentRate *Rate, requester *authz.Actor) *Response {
	resp := &Response{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	if currentRate != nil && authz.CanSeeHourlyRate(requester) {
		rate := currentRate.HourlyRateMAD
		effective := currentRate.EffectiveFrom
		resp.HourlyRateMAD = &rate
		resp.RateEffectiveFrom = &effective
	}

	return resp
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModelWithRoles(u *userDatamodel.User, roles []string) *User {
	domainUser := FromDataModel(u)
	domainUser.Roles = roles
	return domainUser
}

func RateFromDataModel(r *rateDatamodel.UserRate) *Rate {
	return &Rate{
		ID:            r.ID,
		UserID:        r.UserID,
		HourlyRateMAD: r.HourlyRateMAD,
		EffectiveFrom: r.EffectiveFrom,
		CreatedAt:     r.CreatedAt,
	}
}

func RateToDataModel(r *Rate) *rateDatamodel.UserRate {
	return &rateDatamodel.UserRate{
		ID:            r.ID,
		UserID:        r.UserID,
		HourlyRateMAD: r.HourlyRateMAD,
		EffectiveFrom: r.EffectiveFrom,
		CreatedAt:     r.CreatedAt,
	}
}
