// Package domain holds the typed identifiers used across the charging
// hierarchy. Each entity kind gets its own ID type so identifiers of
// different kinds can never be mixed up at compile time.
package domain

import (
	"fmt"
	"strings"

	dErrors "chargenet/pkg/domain-errors"
)

// Typed identifiers, one per entity kind. These are distinct named types on
// purpose: a ChargingPoolID is not assignable to a ChargingStationID even
// though both are textual underneath.
type (
	RoamingNetworkID  string
	OperatorID        string
	ChargingPoolID    string
	ChargingStationID string
	EVSEID            string
	BrandID           string
	ChargingGroupID   string
	ChargingSessionID string
	ReservationID     string
	ProviderID        string
)

func (id RoamingNetworkID) String() string  { return string(id) }
func (id OperatorID) String() string        { return string(id) }
func (id ChargingPoolID) String() string    { return string(id) }
func (id ChargingStationID) String() string { return string(id) }
func (id EVSEID) String() string            { return string(id) }
func (id BrandID) String() string           { return string(id) }
func (id ChargingGroupID) String() string   { return string(id) }
func (id ChargingSessionID) String() string { return string(id) }
func (id ReservationID) String() string     { return string(id) }
func (id ProviderID) String() string        { return string(id) }

// Per-kind length limits. Roaming network IDs are short tenant keys like
// "DE*GEF"; EVSE IDs carry the full operator prefix plus a local suffix.
const (
	maxRoamingNetworkID  = 32
	maxOperatorID        = 64
	maxChargingPoolID    = 64
	maxChargingStationID = 64
	maxEVSEID            = 64
	maxBrandID           = 64
	maxChargingGroupID   = 64
	maxChargingSessionID = 64
	maxReservationID     = 64
	maxProviderID        = 64
)

// validate enforces the shared identifier grammar: non-empty, bounded length,
// ASCII letters, digits, '*', '-' and '_' only. It never panics on malformed
// input; every failure comes back as CodeInvalidInput.
func validate(kind, text string, maxLen int) error {
	if text == "" {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s id cannot be empty", kind))
	}
	if strings.TrimSpace(text) != text || strings.TrimSpace(text) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s id cannot contain surrounding whitespace", kind))
	}
	if len(text) > maxLen {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s id exceeds %d characters", kind, maxLen))
	}
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '*' || r == '-' || r == '_':
		default:
			return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s id contains invalid character %q", kind, r))
		}
	}
	return nil
}

// ParseRoamingNetworkID parses a roaming network identifier such as "DE*GEF".
func ParseRoamingNetworkID(text string) (RoamingNetworkID, error) {
	if err := validate("roaming network", text, maxRoamingNetworkID); err != nil {
		return "", err
	}
	return RoamingNetworkID(text), nil
}

// ParseOperatorID parses a charging station operator identifier.
func ParseOperatorID(text string) (OperatorID, error) {
	if err := validate("charging station operator", text, maxOperatorID); err != nil {
		return "", err
	}
	return OperatorID(text), nil
}

// ParseChargingPoolID parses a charging pool identifier such as "DE*GEF*P1234".
func ParseChargingPoolID(text string) (ChargingPoolID, error) {
	if err := validate("charging pool", text, maxChargingPoolID); err != nil {
		return "", err
	}
	return ChargingPoolID(text), nil
}

// ParseChargingStationID parses a charging station identifier.
func ParseChargingStationID(text string) (ChargingStationID, error) {
	if err := validate("charging station", text, maxChargingStationID); err != nil {
		return "", err
	}
	return ChargingStationID(text), nil
}

// ParseEVSEID parses an EVSE identifier such as "DE*GEF*E1234*1".
func ParseEVSEID(text string) (EVSEID, error) {
	if err := validate("EVSE", text, maxEVSEID); err != nil {
		return "", err
	}
	return EVSEID(text), nil
}

// ParseBrandID parses a brand identifier.
func ParseBrandID(text string) (BrandID, error) {
	if err := validate("brand", text, maxBrandID); err != nil {
		return "", err
	}
	return BrandID(text), nil
}

// ParseChargingGroupID parses a charging group identifier.
func ParseChargingGroupID(text string) (ChargingGroupID, error) {
	if err := validate("charging group", text, maxChargingGroupID); err != nil {
		return "", err
	}
	return ChargingGroupID(text), nil
}

// ParseChargingSessionID parses a charging session identifier.
func ParseChargingSessionID(text string) (ChargingSessionID, error) {
	if err := validate("charging session", text, maxChargingSessionID); err != nil {
		return "", err
	}
	return ChargingSessionID(text), nil
}

// ParseReservationID parses a reservation identifier.
func ParseReservationID(text string) (ReservationID, error) {
	if err := validate("reservation", text, maxReservationID); err != nil {
		return "", err
	}
	return ReservationID(text), nil
}

// ParseProviderID parses an e-mobility provider identifier.
func ParseProviderID(text string) (ProviderID, error) {
	if err := validate("e-mobility provider", text, maxProviderID); err != nil {
		return "", err
	}
	return ProviderID(text), nil
}
