package session

import (
	"encoding/json"
	"fmt"
)

func encodeTokenPair(p TokenPair) (string, error) {
	if !p.Complete() {
		return "", ErrIncompletePair
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeTokenPair returns ok=false for an empty stored object, which older clients
// could leave behind.
func decodeTokenPair(value string) (TokenPair, bool, error) {
	var p TokenPair
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return TokenPair{}, false, fmt.Errorf("%w: token pair: %v", ErrCorrupt, err)
	}
	if p.Empty() {
		return TokenPair{}, false, nil
	}
	if !p.Complete() {
		return TokenPair{}, false, fmt.Errorf("%w: token pair is missing a half", ErrCorrupt)
	}
	return p, true, nil
}

func encodeProfile(u *UserProfile) (string, error) {
	if u == nil || u.ID == "" {
		return "", ErrEmptyProfile
	}
	data, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeProfile(value string) (*UserProfile, bool, error) {
	if value == "" || value == "null" || value == "{}" {
		return nil, false, nil
	}
	u := &UserProfile{}
	if err := json.Unmarshal([]byte(value), u); err != nil {
		return nil, false, fmt.Errorf("%w: profile: %v", ErrCorrupt, err)
	}
	if u.ID == "" {
		return nil, false, nil
	}
	return u, true, nil
}
