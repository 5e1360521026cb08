/**
 * @description
 * This file defines the user profile model. The phone number is the de facto
 * account key: the ledger service keeps exactly one profile per phone number
 * and every order or subscription references its owner by it.
 */
package domain

import "strings"

// UserProfile is the account record for a customer.
type UserProfile struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phone_number"`
	OrderIDs    []int64 `json:"order_ids"`
}

// FirstName derives the display name shown in the header: the first
// whitespace-separated token of the full name, or a placeholder when the
// profile has no name.
func (p UserProfile) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return "User"
	}
	return fields[0]
}
