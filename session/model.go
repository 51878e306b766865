package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// TokenPair is the opaque bearer credential and its refresh companion.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Complete reports whether both halves are present.
func (p TokenPair) Complete() bool {
	return p.Token != "" && p.RefreshToken != ""
}

// Empty reports whether both halves are absent.
func (p TokenPair) Empty() bool {
	return p.Token == "" && p.RefreshToken == ""
}

// ProfileID identifies a user. The remote API may send it as a JSON number or string;
// both decode to the same textual form.
type ProfileID string

func (id ProfileID) String() string {
	return string(id)
}

// UnmarshalJSON accepts numbers and strings.
func (id *ProfileID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProfileID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("profile id must be a string or number")
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return errors.New("profile id must be a string or number")
	}
	*id = ProfileID(n.String())
	return nil
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}

// UserProfile is the authenticated user record returned by the remote API.
//
// Fields the client does not model are kept in Extra and written back unchanged.
type UserProfile struct {
	ID     ProfileID
	Name   string
	Email  string
	Phone  string
	Avatar string
	Extra  map[string]json.RawMessage

	// numericID records that the API sent id as a JSON number, so it is written back
	// as one.
	numericID bool
}

var profileKnownFields = map[string]struct{}{
	"id":     {},
	"name":   {},
	"email":  {},
	"tel":    {},
	"avatar": {},
}

// MarshalJSON writes known fields under their wire names and merges Extra.
func (u UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+5)
	for k, v := range u.Extra {
		if _, known := profileKnownFields[k]; known {
			continue
		}
		out[k] = v
	}
	if u.numericID && isJSONNumber(string(u.ID)) {
		out["id"] = json.Number(u.ID)
	} else {
		out["id"] = string(u.ID)
	}
	out["name"] = u.Name
	if u.Email != "" {
		out["email"] = u.Email
	}
	if u.Phone != "" {
		out["tel"] = u.Phone
	}
	if u.Avatar != "" {
		out["avatar"] = u.Avatar
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads known fields and collects the rest into Extra.
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var next UserProfile
	if v, ok := raw["id"]; ok {
		if err := next.ID.UnmarshalJSON(v); err != nil {
			return err
		}
		next.numericID = next.ID != "" && !bytes.HasPrefix(bytes.TrimSpace(v), []byte(`"`))
	}
	for field, dst := range map[string]*string{
		"name":   &next.Name,
		"email":  &next.Email,
		"tel":    &next.Phone,
		"avatar": &next.Avatar,
	} {
		v, ok := raw[field]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return err
		}
	}
	for k, v := range raw {
		if _, known := profileKnownFields[k]; known {
			continue
		}
		if next.Extra == nil {
			next.Extra = make(map[string]json.RawMessage)
		}
		next.Extra[k] = append(json.RawMessage(nil), v...)
	}

	*u = next
	return nil
}

// Clone returns a deep copy so published snapshots cannot alias store state.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	if u.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}
