package sided

import "github.com/kilupskalvis/mapedit/internal/changes"

// CheckDateKey returns the freshness marker key for a plain key
func CheckDateKey(key string) string {
	return "check_date:" + key
}

// UpdateWithCheckDate sets key to value. If the value is unchanged an existing
// check date is refreshed to today; if it changes, the now stale check date
// is removed.
func UpdateWithCheckDate(b *changes.Builder, key, value, today string) {
	checkDate := CheckDateKey(key)
	if current, ok := b.Get(key); ok && current == value {
		if b.Contains(checkDate) {
			b.Set(checkDate, today)
		}
		return
	}
	b.Set(key, value)
	b.Remove(checkDate)
}
