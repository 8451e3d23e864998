package model

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// UnmarshalJSON accepts "admin" as well as {"role":"admin"} or {"name":"admin"}.
func (r *Role) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*r = Role(strings.ToLower(strings.TrimSpace(plain)))
		return nil
	}
	var nested struct {
		Role string `json:"role"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	value := nested.Role
	if value == "" {
		value = nested.Name
	}
	*r = Role(strings.ToLower(strings.TrimSpace(value)))
	return nil
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsCustomer treats the legacy "user" role as a customer.
func (r Role) IsCustomer() bool {
	return r == RoleCustomer || r == "user"
}
