package ledgerclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dairydirect/storefront/internal/domain"
)

// CreateProfile registers a profile for a phone number that has none yet.
func (c *Client) CreateProfile(ctx context.Context, profile domain.UserProfile) error {
	_, err := c.callResult(ctx, "create_profile", []interface{}{profileToWire(profile)}, decodeTextError)
	return err
}

// UpdateProfile replaces the profile stored for its phone number.
func (c *Client) UpdateProfile(ctx context.Context, profile domain.UserProfile) error {
	_, err := c.callResult(ctx, "update_profile", []interface{}{profileToWire(profile)}, decodeProfileError)
	return err
}

// GetProfileByPhone fetches the profile keyed by a phone number. A missing
// profile comes back as a ProfileError with kind DidntFindUserData; callers
// that treat it as a soft miss should check IsProfileNotFound.
func (c *Client) GetProfileByPhone(ctx context.Context, phoneNumber string) (domain.UserProfile, error) {
	ok, err := c.callResult(ctx, "get_profile_by_phone", []interface{}{phoneNumber}, decodeProfileError)
	if err != nil {
		return domain.UserProfile{}, err
	}
	var wire wireProfile
	if err := json.Unmarshal(ok, &wire); err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to decode get_profile_by_phone response: %w", err)
	}
	return profileFromWire(wire)
}

// GetAllCustomers lists every profile. Plain query, admin screens only.
func (c *Client) GetAllCustomers(ctx context.Context) ([]domain.UserProfile, error) {
	raw, err := c.call(ctx, "get_all_customers", nil)
	if err != nil {
		return nil, err
	}
	var wire []wireProfile
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode get_all_customers response: %w", err)
	}
	profiles := make([]domain.UserProfile, 0, len(wire))
	for _, w := range wire {
		profile, err := profileFromWire(w)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// DeleteProfileAdmin removes a profile and returns what was deleted.
func (c *Client) DeleteProfileAdmin(ctx context.Context, phoneNumber string) (domain.UserProfile, error) {
	ok, err := c.callResult(ctx, "delete_profile_admin", []interface{}{phoneNumber}, decodeTextError)
	if err != nil {
		return domain.UserProfile{}, err
	}
	var wire wireProfile
	if err := json.Unmarshal(ok, &wire); err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to decode delete_profile_admin response: %w", err)
	}
	return profileFromWire(wire)
}
