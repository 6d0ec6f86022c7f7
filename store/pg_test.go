package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pressindex/pressindex/core"
)

func TestPgGetMalformedID(t *testing.T) {
	// A malformed id must read as not found before any query runs, since the
	// UUID column would reject the text->uuid cast with a database error. The
	// guard returns before the connection is touched, so no database is
	// needed here.
	s := &PgStore{dimension: 3}

	for _, id := range []string{"not-a-uuid", "", "1234", "c0ffee"} {
		_, err := s.Get(context.Background(), id)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get(%q): err = %v, want ErrNotFound", id, err)
		}
	}
}
