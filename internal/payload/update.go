package payload

// Update builds a partial column map: a column enters the map only when one
// of its source keys was present in the payload. A key that arrived empty
// maps the column to nil, which clears it in the database; an absent key
// leaves the stored value untouched.
type Update struct {
	cols map[string]any
}

func NewUpdate() *Update {
	return &Update{cols: map[string]any{}}
}

func (u *Update) SetString(col string, d Doc, paths ...string) *Update {
	value, present := d.Presence(paths...)
	if present {
		if value != nil {
			u.cols[col] = *value
		} else {
			u.cols[col] = nil
		}
	}
	return u
}

func (u *Update) SetDecimal(col string, d Doc, paths ...string) *Update {
	_, present := d.Presence(paths...)
	if !present {
		return u
	}
	if dec := d.Decimal(paths...); dec != nil {
		u.cols[col] = *dec
	} else {
		u.cols[col] = nil
	}
	return u
}

func (u *Update) SetDate(col string, d Doc, paths ...string) *Update {
	_, present := d.Presence(paths...)
	if !present {
		return u
	}
	if t := d.Date(paths...); t != nil {
		u.cols[col] = *t
	} else {
		u.cols[col] = nil
	}
	return u
}

func (u *Update) SetPhone(col string, d Doc, paths ...string) *Update {
	value, present := d.Presence(paths...)
	if !present {
		return u
	}
	if value != nil {
		if e164 := PhoneE164(*value); e164 != nil {
			u.cols[col] = *e164
			return u
		}
	}
	u.cols[col] = nil
	return u
}

// Set records an already-computed value unconditionally.
func (u *Update) Set(col string, v any) *Update {
	u.cols[col] = v
	return u
}

func (u *Update) Empty() bool { return len(u.cols) == 0 }

func (u *Update) Columns() map[string]any { return u.cols }
