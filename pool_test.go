package qmeasure

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEvalPool(t *testing.T) {
	Convey("Given a bounded evaluation pool", t, func() {
		Convey("Every index is visited exactly once", func() {
			pool := newEvalPool(&Config{Workers: 4})
			results := make([]int, 100)

			err := pool.forEach(context.Background(), len(results), func(i int) error {
				results[i] = i + 1
				return nil
			})
			So(err, ShouldBeNil)

			for i, v := range results {
				So(v, ShouldEqual, i+1)
			}
		})

		Convey("A single worker runs the indices in order", func() {
			pool := newEvalPool(&Config{Workers: 1})
			order := make([]int, 0, 10)

			err := pool.forEach(context.Background(), 10, func(i int) error {
				order = append(order, i)
				return nil
			})
			So(err, ShouldBeNil)
			So(order, ShouldResemble, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
		})

		Convey("The first error is propagated", func() {
			pool := newEvalPool(&Config{Workers: 2})
			boom := errors.New("boom")

			err := pool.forEach(context.Background(), 50, func(i int) error {
				if i == 7 {
					return fmt.Errorf("index %d: %w", i, boom)
				}
				return nil
			})
			So(err, ShouldWrap, boom)
		})

		Convey("Zero work returns immediately", func() {
			pool := newEvalPool(nil)
			So(pool.forEach(context.Background(), 0, func(int) error {
				t.Fatal("should not run")
				return nil
			}), ShouldBeNil)
		})
	})
}
