package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/The-Tifo/Graphql/internal/adapters/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestInMemoryStore(t *testing.T) {
	Convey("Given a new in-memory session store", t, func() {
		ctx := context.Background()
		clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
		s := session.NewInMemoryStore(
			session.WithMaxSize(3),
			session.WithTTL(time.Hour),
			session.WithClock(clock.Now),
		)

		Convey("When a session is stored", func() {
			s.Put(ctx, "sid-1", "token-1")

			Convey("Then it can be read back", func() {
				token, ok := s.Get(ctx, "sid-1")
				So(ok, ShouldBeTrue)
				So(token, ShouldEqual, "token-1")
				So(s.Size(), ShouldEqual, int64(1))
			})
		})

		Convey("When an unknown id is looked up", func() {
			token, ok := s.Get(ctx, "missing")

			Convey("Then nothing is returned", func() {
				So(ok, ShouldBeFalse)
				So(token, ShouldBeEmpty)
			})
		})

		Convey("When the same id is stored twice", func() {
			s.Put(ctx, "sid-1", "token-1")
			s.Put(ctx, "sid-1", "token-2")

			Convey("Then the latest token wins and the size is unchanged", func() {
				token, _ := s.Get(ctx, "sid-1")
				So(token, ShouldEqual, "token-2")
				So(s.Size(), ShouldEqual, int64(1))
			})
		})

		Convey("When the TTL passes", func() {
			s.Put(ctx, "sid-1", "token-1")
			clock.Advance(59 * time.Minute)
			_, stillValid := s.Get(ctx, "sid-1")
			clock.Advance(time.Minute)
			_, ok := s.Get(ctx, "sid-1")

			Convey("Then the session expires and is dropped", func() {
				So(stillValid, ShouldBeTrue)
				So(ok, ShouldBeFalse)
				So(s.Size(), ShouldEqual, int64(0))
			})
		})

		Convey("When the store is full", func() {
			for i := 1; i <= 4; i++ {
				s.Put(ctx, fmt.Sprintf("sid-%d", i), fmt.Sprintf("token-%d", i))
			}

			Convey("Then the oldest session is evicted", func() {
				So(s.Size(), ShouldEqual, int64(3))
				_, ok := s.Get(ctx, "sid-1")
				So(ok, ShouldBeFalse)
				for i := 2; i <= 4; i++ {
					_, ok := s.Get(ctx, fmt.Sprintf("sid-%d", i))
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When a refreshed session would otherwise be oldest", func() {
			s.Put(ctx, "sid-1", "token-1")
			s.Put(ctx, "sid-2", "token-2")
			s.Put(ctx, "sid-3", "token-3")
			s.Put(ctx, "sid-1", "token-1b")
			s.Put(ctx, "sid-4", "token-4")

			Convey("Then the next oldest is evicted instead", func() {
				_, ok := s.Get(ctx, "sid-1")
				So(ok, ShouldBeTrue)
				_, ok = s.Get(ctx, "sid-2")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When sessions are deleted", func() {
			s.Put(ctx, "sid-1", "token-1")
			s.Put(ctx, "sid-2", "token-2")
			s.Put(ctx, "sid-3", "token-3")
			s.Delete(ctx, "sid-2")
			s.Delete(ctx, "sid-3")
			s.Delete(ctx, "missing")

			Convey("Then only the remaining one is kept", func() {
				So(s.Size(), ShouldEqual, int64(1))
				_, ok := s.Get(ctx, "sid-2")
				So(ok, ShouldBeFalse)
				token, ok := s.Get(ctx, "sid-1")
				So(ok, ShouldBeTrue)
				So(token, ShouldEqual, "token-1")
			})
		})
	})
}

func TestInMemoryStoreUnbounded(t *testing.T) {
	Convey("Given an unbounded store without TTL", t, func() {
		ctx := context.Background()
		s := session.NewInMemoryStore(session.WithMaxSize(0), session.WithTTL(0))

		Convey("When many sessions are stored concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					s.Put(ctx, fmt.Sprintf("sid-%d", i), "token")
				}(i)
			}
			wg.Wait()

			Convey("Then all of them are kept", func() {
				So(s.Size(), ShouldEqual, int64(50))
				_, ok := s.Get(ctx, "sid-0")
				So(ok, ShouldBeTrue)
			})
		})
	})
}
