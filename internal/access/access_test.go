package access

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var roles = []Role{RoleSystem, RoleAdmin, RoleTeam}

func TestAuthorizeExhaustive(t *testing.T) {
	for _, role := range roles {
		for _, category := range AllCategories() {
			for _, method := range All() {
				inCategory := slices.Contains(MethodsIn(category), method)
				roleHasCategory := slices.Contains(Categories(role), category)
				tag := TagOf(method)
				teamTagged := tag == TagTeam || tag == TagShared

				expected := roleHasCategory && inCategory
				if role == RoleTeam {
					expected = expected && teamTagged
				} else {
					expected = expected && tag != TagTeam
				}

				require.Equal(
					t, expected, Authorize(role, category, method),
					"role=%s category=%s method=%s", role, category, method,
				)
			}
		}
	}
}

func TestEveryMethodHasOneCategory(t *testing.T) {
	seen := map[Method]int{}
	for _, category := range AllCategories() {
		for _, m := range MethodsIn(category) {
			seen[m]++
			c, ok := CategoryOf(m)
			require.True(t, ok)
			require.Equal(t, category, c)
		}
	}
	for m, n := range seen {
		require.Equal(t, 1, n, m)
	}
	require.Len(t, seen, len(All()))
}

func TestSystemCannotSelectProblems(t *testing.T) {
	require.False(t, Authorize(RoleSystem, CategoryProblems, GetProblems))
	_, err := MethodsFor(RoleSystem, CategoryProblems)
	require.ErrorIs(t, err, ErrNoMethods)
}

func TestTeamCannotCreateContest(t *testing.T) {
	require.False(t, Authorize(RoleTeam, CategoryContests, CreateContest))
	require.NotContains(t, Categories(RoleTeam), CategoryContests)
}

func TestMethodsFor(t *testing.T) {
	testCases := []struct {
		role     Role
		category Category
		expected []Method
	}{
		{
			role:     RoleTeam,
			category: CategoryProblems,
			expected: []Method{DownloadProblem, GetProblem, GetProblems},
		},
		{
			role:     RoleTeam,
			category: CategoryRuns,
			expected: []Method{DownloadRuns, DownloadRun, GetRun, GetRuns, SubmitRun},
		},
		{
			role:     RoleAdmin,
			category: CategoryRuns,
			expected: []Method{DownloadRuns, DownloadRun, GetRun, GetRuns, GenerateReport},
		},
		{
			role:     RoleSystem,
			category: CategoryContests,
			expected: MethodsIn(CategoryContests),
		},
	}

	for _, test := range testCases {
		methods, err := MethodsFor(test.role, test.category)
		require.NoError(t, err)
		diff := cmp.Diff(test.expected, methods)
		if diff != "" {
			t.Fatalf("%s/%s (-want +got):\n%s", test.role, test.category, diff)
		}
	}
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("submitRun")
	require.True(t, ok)
	require.Equal(t, SubmitRun, m)

	_, ok = Lookup("clearContest")
	require.False(t, ok)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Admin")
	require.NoError(t, err)
	require.Equal(t, "admin", role.Segment())

	_, err = ParseRole("Judge")
	require.Error(t, err)
}
