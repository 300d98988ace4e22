package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultGroupName = "none"
	maxGroupNameLen  = 20
)

type Client struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	BuyingPrice   *int64     `json:"buying_price"`
	BalanceAmount *int64     `json:"balance_amount"`
	PickupDate    *time.Time `json:"pickup_date"`
	GroupName     string     `json:"group_name"`
	CreatedBy     int64      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

type NewClientParams struct {
	Username      string
	Phone         string
	Email         string
	PasswordHash  string
	BuyingPrice   *int64
	BalanceAmount *int64
	PickupDate    *time.Time
	GroupName     string
	CreatedBy     int64
	CreatedAt     time.Time
}

func NewClient(p NewClientParams, emails EmailValidator) (*Client, error) {
	username, err := requireText("username", p.Username, maxNameLen)
	if err != nil {
		return nil, err
	}
	phone, err := requireText("phone", p.Phone, maxPhoneLen)
	if err != nil {
		return nil, err
	}
	email, err := checkEmail(emails, p.Email)
	if err != nil {
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if err := checkNonNegative("buying_price", p.BuyingPrice); err != nil {
		return nil, err
	}
	if err := checkNonNegative("balance_amount", p.BalanceAmount); err != nil {
		return nil, err
	}
	if p.CreatedBy <= 0 {
		return nil, fmt.Errorf("%w: created_by is required", ErrInvalidInput)
	}
	group, err := groupName(p.GroupName)
	if err != nil {
		return nil, err
	}

	return &Client{
		Username:      username,
		Phone:         phone,
		Email:         email,
		PasswordHash:  p.PasswordHash,
		BuyingPrice:   p.BuyingPrice,
		BalanceAmount: p.BalanceAmount,
		PickupDate:    p.PickupDate,
		GroupName:     group,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}, nil
}

func groupName(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultGroupName, nil
	}
	if utf8.RuneCountInString(v) > maxGroupNameLen {
		return "", fmt.Errorf("%w: group_name exceeds %d characters", ErrInvalidInput, maxGroupNameLen)
	}
	return v, nil
}

type ClientPatch struct {
	Username      *string
	Phone         *string
	Email         *string
	PasswordHash  *string
	BuyingPrice   *int64
	BalanceAmount *int64
	PickupDate    *time.Time
	GroupName     *string
}

func (c *Client) Apply(p ClientPatch, emails EmailValidator) error {
	next := *c

	if p.Username != nil {
		v, err := requireText("username", *p.Username, maxNameLen)
		if err != nil {
			return err
		}
		next.Username = v
	}
	if p.Phone != nil {
		v, err := requireText("phone", *p.Phone, maxPhoneLen)
		if err != nil {
			return err
		}
		next.Phone = v
	}
	if p.Email != nil {
		v, err := checkEmail(emails, *p.Email)
		if err != nil {
			return err
		}
		next.Email = v
	}
	if p.PasswordHash != nil {
		if *p.PasswordHash == "" {
			return fmt.Errorf("%w: password must not be empty", ErrInvalidInput)
		}
		next.PasswordHash = *p.PasswordHash
	}
	if p.BuyingPrice != nil {
		if err := checkNonNegative("buying_price", p.BuyingPrice); err != nil {
			return err
		}
		next.BuyingPrice = p.BuyingPrice
	}
	if p.BalanceAmount != nil {
		if err := checkNonNegative("balance_amount", p.BalanceAmount); err != nil {
			return err
		}
		next.BalanceAmount = p.BalanceAmount
	}
	if p.PickupDate != nil {
		next.PickupDate = p.PickupDate
	}
	if p.GroupName != nil {
		v, err := groupName(*p.GroupName)
		if err != nil {
			return err
		}
		next.GroupName = v
	}

	*c = next
	return nil
}
