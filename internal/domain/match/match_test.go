package match_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/talentco/skillsearch/internal/domain/match"
	"github.com/talentco/skillsearch/internal/domain/model"
	"github.com/talentco/skillsearch/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// stubStore is a fixed in-memory snapshot view.
type stubStore struct {
	skills  map[string]model.Skill
	parents map[string][]string
	users   []model.User
}

func (s *stubStore) UsersBySkill(ctx context.Context, skillID string) []*model.User {
	var out []*model.User
	for i := range s.users {
		if _, ok := s.users[i].Skill(skillID); ok {
			out = append(out, &s.users[i])
		}
	}
	return out
}

func (s *stubStore) Skill(ctx context.Context, id string) (model.Skill, bool) {
	sk, ok := s.skills[id]
	return sk, ok
}

func (s *stubStore) ParentTitles(ctx context.Context, id string) []string {
	return s.parents[id]
}

func fixtureStore() *stubStore {
	return &stubStore{
		skills: map[string]model.Skill{
			"python": {ID: "python", Level: 4, Title: "Python"},
			"golang": {ID: "golang", Level: 4, Title: "Go"},
		},
		parents: map[string][]string{
			"python": {"Engineering", "Programming"},
			"golang": {"Engineering", "Programming"},
		},
		users: []model.User{
			{
				Email: "alice@example.com",
				Name:  "Alice",
				Skills: []model.UserSkill{
					{SkillID: "python", Level: 4, Rating: model.RatingAdvanced},
					{SkillID: "golang", Level: 4, Rating: model.RatingIntermediate},
				},
			},
			{
				Email: "bob@example.com",
				Name:  "Bob",
				Skills: []model.UserSkill{
					{SkillID: "golang", Level: 4, Rating: model.RatingBeginner},
				},
			},
			{
				Email: "carol@example.com",
				Name:  "Carol",
				Skills: []model.UserSkill{
					{SkillID: "cobol", Level: 4, Rating: model.RatingAdvanced},
				},
			},
		},
	}
}

func TestMatcher_Match(t *testing.T) {
	Convey("Given a matcher over a fixture snapshot", t, func() {
		m := match.New(fixtureStore())
		ctx := context.Background()

		Convey("When matching two known skills", func() {
			matched, candidates := m.Match(ctx, []match.QueryMatch{
				{SkillID: "python", Similarity: 0.9},
				{SkillID: "golang", Similarity: 0.8},
			})

			Convey("Then matched skills carry catalog metadata", func() {
				So(matched, ShouldHaveLength, 2)
				So(matched[0].SkillID, ShouldEqual, "python")
				So(matched[0].Title, ShouldEqual, "Python")
				So(matched[0].Level, ShouldEqual, 4)
				So(matched[0].ParentTitles, ShouldResemble, []string{"Engineering", "Programming"})
				So(matched[0].Similarity, ShouldEqual, 0.9)
			})

			Convey("Then users appear in order of their first matching skill", func() {
				So(candidates, ShouldHaveLength, 2)
				So(candidates[0].Email, ShouldEqual, "alice@example.com")
				So(candidates[1].Email, ShouldEqual, "bob@example.com")
			})

			Convey("Then contributions only cover skills the user owns", func() {
				So(candidates[0].Contributions, ShouldHaveLength, 2)
				So(candidates[1].Contributions, ShouldHaveLength, 1)
				So(candidates[1].Contributions[0].SkillID, ShouldEqual, "golang")
				So(candidates[1].Contributions[0].Rating, ShouldEqual, 1)
			})

			Convey("Then a user owning none of the matched skills is absent", func() {
				for _, c := range candidates {
					So(c.Email, ShouldNotEqual, "carol@example.com")
				}
			})
		})

		Convey("When a vector result references a skill the catalog no longer has", func() {
			matched, candidates := m.Match(ctx, []match.QueryMatch{
				{SkillID: "removed-skill", Similarity: 0.95},
				{SkillID: "python", Similarity: 0.7},
			})

			Convey("Then the stale skill is dropped and the rest survive", func() {
				So(matched, ShouldHaveLength, 1)
				So(matched[0].SkillID, ShouldEqual, "python")
				So(candidates, ShouldHaveLength, 1)
			})
		})

		Convey("When there are no query matches", func() {
			matched, candidates := m.Match(ctx, nil)

			Convey("Then both outputs are empty", func() {
				So(matched, ShouldBeEmpty)
				So(candidates, ShouldBeEmpty)
			})
		})

		Convey("When matching the same query twice", func() {
			query := []match.QueryMatch{
				{SkillID: "golang", Similarity: 0.8},
				{SkillID: "python", Similarity: 0.7},
			}
			_, first := m.Match(ctx, query)
			_, second := m.Match(ctx, query)

			Convey("Then candidate order is identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}
