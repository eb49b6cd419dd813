package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/levelboard/internal/adapters/watcher"
	"github.com/okian/levelboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestWatcher(t *testing.T) {
	Convey("Given a watched dataset file", t, func() {
		dir := t.TempDir()
		watched := filepath.Join(dir, "speedrun.json")
		other := filepath.Join(dir, "notes.txt")
		So(os.WriteFile(watched, []byte("[]"), 0o600), ShouldBeNil)

		changes := make(chan string, 10)
		w, err := watcher.New([]string{watched}, func(_ context.Context, path string) {
			changes <- path
		}, watcher.WithDebounce(50*time.Millisecond))
		So(err, ShouldBeNil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w.Start(ctx)
		defer func() { _ = w.Close() }()

		Convey("When the file is written several times in a burst", func() {
			for i := 0; i < 5; i++ {
				So(os.WriteFile(watched, []byte("[ ]"), 0o600), ShouldBeNil)
			}

			Convey("Then a single settled change should be reported", func() {
				select {
				case p := <-changes:
					abs, _ := filepath.Abs(watched)
					So(p, ShouldEqual, abs)
				case <-time.After(3 * time.Second):
					So("no change reported", ShouldBeEmpty)
				}
				select {
				case p := <-changes:
					So(p, ShouldBeEmpty)
				case <-time.After(200 * time.Millisecond):
				}
			})
		})

		Convey("When an unrelated file in the same directory changes", func() {
			So(os.WriteFile(other, []byte("x"), 0o600), ShouldBeNil)

			Convey("Then nothing should be reported", func() {
				select {
				case p := <-changes:
					So(p, ShouldBeEmpty)
				case <-time.After(300 * time.Millisecond):
				}
			})
		})

		Convey("When closed twice", func() {
			Convey("Then the second close should be a no-op", func() {
				So(w.Close(), ShouldBeNil)
				So(w.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given no files", t, func() {
		_, err := watcher.New(nil, func(context.Context, string) {})

		Convey("Then the watcher should refuse to start", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
