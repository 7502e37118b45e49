package model

import "encoding/json"

// ColorRef is a reference to a palette color: either a bare id or the
// populated object. Resolution happens once at the data-access boundary,
// so downstream code can rely on Color being set whenever the task came
// out of the repo layer.
type ColorRef struct {
	ID    int64
	Color *Color
}

func (r ColorRef) Resolved() bool { return r.Color != nil }

func (r ColorRef) MarshalJSON() ([]byte, error) {
	if r.Color != nil {
		return json.Marshal(r.Color)
	}
	if r.ID == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *ColorRef) UnmarshalJSON(data []byte) error {
	*r = ColorRef{}
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var c Color
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		r.ID = c.ID
		r.Color = &c
		return nil
	}
	return json.Unmarshal(data, &r.ID)
}

// UserRef works like ColorRef for task owners.
type UserRef struct {
	ID   int64
	User *User
}

func (r UserRef) Resolved() bool { return r.User != nil }

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	if r.ID == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	*r = UserRef{}
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var u User
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		r.ID = u.ID
		r.User = &u
		return nil
	}
	return json.Unmarshal(data, &r.ID)
}
