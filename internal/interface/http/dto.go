package handlers

import (
	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

type contactRequest struct {
	FirstName    string  `json:"first_name" binding:"required,name25"`
	LastName     string  `json:"last_name" binding:"required,name25"`
	BirthdayDate string  `json:"birthday_date" binding:"required,date"`
	Email        string  `json:"email" binding:"required,email"`
	PhoneNumber  string  `json:"phone_number" binding:"required,phone"`
	Note         *string `json:"note"`
}

func (r contactRequest) fields() (entity.ContactFields, error) {
	b, err := helpers.ParseDate(r.BirthdayDate)
	if err != nil {
		return entity.ContactFields{}, err
	}
	return entity.ContactFields{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		BirthdayDate: b,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Note:         r.Note,
	}, nil
}

type contactResponse struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	BirthdayDate string  `json:"birthday_date"`
	Email        string  `json:"email"`
	PhoneNumber  string  `json:"phone_number"`
	Note         *string `json:"note"`
}

func toContactResponse(c *entity.Contact) contactResponse {
	return contactResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		BirthdayDate: helpers.FormatDate(c.BirthdayDate),
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		Note:         c.Note,
	}
}

func toContactList(cs []entity.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(cs))
	for i := range cs {
		out = append(out, toContactResponse(&cs[i]))
	}
	return out
}

type accountResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Avatar    *string `json:"avatar"`
	Confirmed bool    `json:"confirmed"`
}

func toAccountResponse(a *entity.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Avatar:    a.Avatar,
		Confirmed: a.Confirmed,
	}
}
