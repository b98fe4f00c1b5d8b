package profile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UpsertParts holds the three parallel fragment lists of a profile upsert plus
// the positional parameter values. Columns[i], Placeholders[i] and
// SetClauses[i] refer to the same supplied field; Values is numbered to match
// the placeholders, with the user id always at $1 (the conflict target).
type UpsertParts struct {
	Columns      []string
	Placeholders []string
	SetClauses   []string
	Values       []any
}

// SQL renders the single INSERT ... ON CONFLICT statement. Presence or absence
// of the row is resolved by the conflict clause, so a first write creates the
// row and a repeat of the same update converges on the same final state.
func (p UpsertParts) SQL() string {
	return fmt.Sprintf(
		`INSERT INTO user_profiles (%s) VALUES (%s) ON CONFLICT (user_id) DO UPDATE SET %s`,
		strings.Join(p.Columns, ", "),
		strings.Join(p.Placeholders, ", "),
		strings.Join(p.SetClauses, ", "),
	)
}

// BuildCoreUpdate builds the users UPDATE for the supplied core fields.
// The SET list contains only fields that were present plus the updated_at
// refresh; the user id is appended last as the WHERE parameter. ok is false
// when neither core field was supplied, in which case no statement runs (a
// timestamp-only UPDATE is unreachable by construction).
func BuildCoreUpdate(userID uuid.UUID, u *Update) (string, []any, bool) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)

	for _, f := range u.coreFields() {
		if f.value == nil {
			continue
		}
		args = append(args, nullable(f.value))
		sets = append(sets, fmt.Sprintf("%s = $%d", f.column, len(args)))
	}
	if len(sets) == 0 {
		return "", nil, false
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args, true
}

// BuildProfileUpsert builds the user_profiles upsert fragments for the
// supplied profile fields, walking the canonical field order. ok is false when
// no profile field was supplied. Each of the three lists ends up with exactly
// one entry per supplied field plus one extra: the user id in the column and
// placeholder lists, the updated_at refresh in the SET list.
func BuildProfileUpsert(userID uuid.UUID, u *Update) (UpsertParts, bool) {
	parts := UpsertParts{
		Columns:      []string{"user_id"},
		Placeholders: []string{"$1"},
		Values:       []any{userID},
	}

	for _, f := range u.profileFields() {
		if f.value == nil {
			continue
		}
		parts.Values = append(parts.Values, nullable(f.value))
		parts.Columns = append(parts.Columns, f.column)
		parts.Placeholders = append(parts.Placeholders, fmt.Sprintf("$%d", len(parts.Values)))
		parts.SetClauses = append(parts.SetClauses, fmt.Sprintf("%s = EXCLUDED.%s", f.column, f.column))
	}
	if len(parts.SetClauses) == 0 {
		return UpsertParts{}, false
	}

	parts.SetClauses = append(parts.SetClauses, "updated_at = NOW()")
	return parts, true
}
