package profile

import (
	"fmt"
	"math/bits"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func strptr(s string) *string { return &s }

// canonical profile column order, duplicated on purpose so a reorder in the
// builder breaks a test instead of silently shifting parameters
var canonicalColumns = []string{
	"headline", "bio", "avatar_url", "cover_photo_url", "location",
	"phone_number", "website_url", "linkedin_url", "github_url",
}

func fieldSlots(u *Update) []**string {
	return []**string{
		&u.Headline, &u.Bio, &u.AvatarURL, &u.CoverPhotoURL, &u.Location,
		&u.PhoneNumber, &u.WebsiteURL, &u.LinkedinURL, &u.GithubURL,
	}
}

func TestBuildProfileUpsert_AllSubsets(t *testing.T) {
	userID := uuid.New()

	for mask := 0; mask < 1<<len(canonicalColumns); mask++ {
		var u Update
		slots := fieldSlots(&u)

		wantColumns := []string{"user_id"}
		wantValues := []any{userID}
		for i := range canonicalColumns {
			if mask&(1<<i) == 0 {
				continue
			}
			v := fmt.Sprintf("value-%d", i)
			*slots[i] = strptr(v)
			wantColumns = append(wantColumns, canonicalColumns[i])
			wantValues = append(wantValues, v)
		}

		parts, ok := BuildProfileUpsert(userID, &u)

		if mask == 0 {
			if ok {
				t.Fatal("expected ok=false for empty update")
			}
			continue
		}
		if !ok {
			t.Fatalf("mask %b: expected ok=true", mask)
		}

		n := bits.OnesCount(uint(mask))
		if len(parts.Columns) != n+1 || len(parts.Placeholders) != n+1 || len(parts.SetClauses) != n+1 {
			t.Fatalf("mask %b: list lengths = %d/%d/%d, want %d",
				mask, len(parts.Columns), len(parts.Placeholders), len(parts.SetClauses), n+1)
		}

		if !reflect.DeepEqual(parts.Columns, wantColumns) {
			t.Fatalf("mask %b: columns = %v, want %v", mask, parts.Columns, wantColumns)
		}
		if !reflect.DeepEqual(parts.Values, wantValues) {
			t.Fatalf("mask %b: values = %v, want %v", mask, parts.Values, wantValues)
		}

		// placeholders must be $1..$n+1 in order, aligned with values
		for i, ph := range parts.Placeholders {
			if want := fmt.Sprintf("$%d", i+1); ph != want {
				t.Fatalf("mask %b: placeholder[%d] = %s, want %s", mask, i, ph, want)
			}
		}

		// set clauses cover exactly the supplied columns, then the timestamp
		for i, col := range parts.Columns[1:] {
			if want := fmt.Sprintf("%s = EXCLUDED.%s", col, col); parts.SetClauses[i] != want {
				t.Fatalf("mask %b: set[%d] = %s, want %s", mask, i, parts.SetClauses[i], want)
			}
		}
		if last := parts.SetClauses[len(parts.SetClauses)-1]; last != "updated_at = NOW()" {
			t.Fatalf("mask %b: last set clause = %s", mask, last)
		}
	}
}

func TestBuildProfileUpsert_EmptyStringClearsToNull(t *testing.T) {
	userID := uuid.New()
	u := Update{
		Bio:      strptr(""),
		Headline: strptr("engineer"),
	}

	parts, ok := BuildProfileUpsert(userID, &u)
	if !ok {
		t.Fatal("expected ok=true")
	}

	want := []any{userID, "engineer", nil}
	if !reflect.DeepEqual(parts.Values, want) {
		t.Fatalf("values = %v, want %v", parts.Values, want)
	}
}

func TestBuildProfileUpsert_SQL(t *testing.T) {
	userID := uuid.New()
	u := Update{
		Headline:  strptr("engineer"),
		GithubURL: strptr("https://github.com/someone"),
	}

	parts, ok := BuildProfileUpsert(userID, &u)
	if !ok {
		t.Fatal("expected ok=true")
	}

	want := "INSERT INTO user_profiles (user_id, headline, github_url) " +
		"VALUES ($1, $2, $3) " +
		"ON CONFLICT (user_id) DO UPDATE SET " +
		"headline = EXCLUDED.headline, github_url = EXCLUDED.github_url, updated_at = NOW()"
	if got := parts.SQL(); got != want {
		t.Fatalf("sql = %q, want %q", got, want)
	}
}

func TestBuildCoreUpdate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		update    Update
		wantOK    bool
		wantQuery string
		wantArgs  []any
	}{
		{
			name:   "no core fields",
			update: Update{Bio: strptr("only profile")},
			wantOK: false,
		},
		{
			name:      "first name only",
			update:    Update{FirstName: strptr("Ada")},
			wantOK:    true,
			wantQuery: "UPDATE users SET first_name = $1, updated_at = NOW() WHERE id = $2",
			wantArgs:  []any{"Ada", userID},
		},
		{
			name:      "last name only",
			update:    Update{LastName: strptr("Lovelace")},
			wantOK:    true,
			wantQuery: "UPDATE users SET last_name = $1, updated_at = NOW() WHERE id = $2",
			wantArgs:  []any{"Lovelace", userID},
		},
		{
			name:      "both names",
			update:    Update{FirstName: strptr("Ada"), LastName: strptr("Lovelace")},
			wantOK:    true,
			wantQuery: "UPDATE users SET first_name = $1, last_name = $2, updated_at = NOW() WHERE id = $3",
			wantArgs:  []any{"Ada", "Lovelace", userID},
		},
		{
			name:      "empty string clears",
			update:    Update{FirstName: strptr("")},
			wantOK:    true,
			wantQuery: "UPDATE users SET first_name = $1, updated_at = NOW() WHERE id = $2",
			wantArgs:  []any{nil, userID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, ok := BuildCoreUpdate(userID, &tt.update)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if query != tt.wantQuery {
				t.Fatalf("query = %q, want %q", query, tt.wantQuery)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestUpdate_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		update Update
		want   bool
	}{
		{"nothing set", Update{}, true},
		{"core only", Update{FirstName: strptr("Ada")}, false},
		{"profile only", Update{Location: strptr("London")}, false},
		{"explicit empty string still counts", Update{Bio: strptr("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.update.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildProfileUpsert_SingleStatementPerRequest(t *testing.T) {
	// every supplied field lands in the same statement; no field produces
	// its own INSERT
	userID := uuid.New()
	var u Update
	for _, slot := range fieldSlots(&u) {
		*slot = strptr("x")
	}

	parts, ok := BuildProfileUpsert(userID, &u)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if n := strings.Count(parts.SQL(), "INSERT INTO"); n != 1 {
		t.Fatalf("statement count = %d, want 1", n)
	}
	if len(parts.Values) != len(canonicalColumns)+1 {
		t.Fatalf("values = %d, want %d", len(parts.Values), len(canonicalColumns)+1)
	}
}
