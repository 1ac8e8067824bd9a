package bucket_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/talentco/skillsearch/internal/domain/bucket"
	"github.com/talentco/skillsearch/internal/domain/types"
)

func ranked(email string, display float64) types.RankedUser {
	return types.RankedUser{
		Email: email,
		Score: types.ScoreBreakdown{DisplayScore: display},
	}
}

func TestBucketizer_Assign(t *testing.T) {
	Convey("Given the default score bands", t, func() {
		b := bucket.New()

		Convey("When assigning users across the range", func() {
			buckets := b.Assign([]types.RankedUser{
				ranked("a@example.com", 100),
				ranked("b@example.com", 80),
				ranked("c@example.com", 79.99),
				ranked("d@example.com", 60),
				ranked("e@example.com", 40),
				ranked("f@example.com", 39.99),
				ranked("g@example.com", 0),
			})

			Convey("Then each user lands in exactly one band", func() {
				So(buckets, ShouldHaveLength, 4)
				So(buckets[0].Name, ShouldEqual, "Excellent Match")
				So(buckets[0].Count, ShouldEqual, 2)
				So(buckets[1].Name, ShouldEqual, "Strong Match")
				So(buckets[1].Count, ShouldEqual, 2)
				So(buckets[2].Name, ShouldEqual, "Good Match")
				So(buckets[2].Count, ShouldEqual, 1)
				So(buckets[3].Name, ShouldEqual, "Other Matches")
				So(buckets[3].Count, ShouldEqual, 2)
			})

			Convey("Then the configured bounds are reported", func() {
				So(buckets[0].MinScore, ShouldEqual, 80)
				So(buckets[0].MaxScore, ShouldEqual, 100)
				So(buckets[3].MinScore, ShouldEqual, 0)
				So(buckets[3].MaxScore, ShouldEqual, 40)
			})
		})

		Convey("When there are no users", func() {
			buckets := b.Assign(nil)

			Convey("Then every band is still reported with count 0", func() {
				So(buckets, ShouldHaveLength, 4)
				for _, bk := range buckets {
					So(bk.Count, ShouldEqual, 0)
					So(bk.Users, ShouldBeEmpty)
				}
			})
		})
	})

	Convey("Given custom band thresholds", t, func() {
		b := bucket.New(bucket.WithBands(bucket.Bands(90, 70, 50)))

		Convey("When assigning a user at the old excellent bound", func() {
			buckets := b.Assign([]types.RankedUser{ranked("a@example.com", 85)})

			Convey("Then the custom bounds decide the band", func() {
				So(buckets[0].Count, ShouldEqual, 0)
				So(buckets[1].Count, ShouldEqual, 1)
			})
		})
	})
}
