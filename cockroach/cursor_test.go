package cockroach

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
)

func TestMessageCursor_roundTrip(t *testing.T) {
	want := MessageCursor{CreatedAt: time.Date(2026, 5, 6, 7, 8, 9, 123456000, time.UTC), Seq: 42}
	s, err := EncodeCursor(want)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ParseMessageCursor(s, types.PageModeBefore)
	if err != nil {
		t.Fatal(err)
	}

	if !got.CreatedAt.Equal(want.CreatedAt) || got.Seq != want.Seq {
		t.Errorf("want %+v; got %+v", want, got)
	}
}

func TestParseMessageCursor_timestamp(t *testing.T) {
	ts := "2026-05-06T07:08:09.5Z"
	at, _ := time.Parse(time.RFC3339Nano, ts)

	before, err := ParseMessageCursor(ts, types.PageModeBefore)
	if err != nil {
		t.Fatal(err)
	}
	if !before.CreatedAt.Equal(at) || before.Seq != 0 {
		t.Errorf("unexpected before cursor %+v", before)
	}

	after, err := ParseMessageCursor(ts, types.PageModeAfter)
	if err != nil {
		t.Fatal(err)
	}
	if !after.CreatedAt.Equal(at) || after.Seq != math.MaxInt64 {
		t.Errorf("unexpected after cursor %+v", after)
	}
}

func TestParseMessageCursor_invalid(t *testing.T) {
	for _, s := range []string{"!!!", "0", "yesterday"} {
		_, err := ParseMessageCursor(s, types.PageModeAfter)
		if !errors.Is(err, errs.InvalidArgument) {
			t.Errorf("%q: want invalid argument; got %v", s, err)
		}
	}
}

func testMessages(seqs ...int64) []types.Message {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.Message, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, types.Message{
			ID:        string(rune('a' + seq)),
			Seq:       seq,
			CreatedAt: base.Add(time.Duration(seq) * time.Second),
		})
	}
	return out
}

func seqsOf(msgs []types.Message) []int64 {
	out := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Seq)
	}
	return out
}

func TestApplyPageMeta(t *testing.T) {
	tt := []struct {
		name        string
		mode        types.PageMode
		rows        []types.Message
		limit       uint
		wantSeqs    []int64
		wantHasMore bool
	}{
		{name: "latest_more", mode: types.PageModeLatest, rows: testMessages(10, 9, 8), limit: 2, wantSeqs: []int64{9, 10}, wantHasMore: true},
		{name: "latest_exact", mode: types.PageModeLatest, rows: testMessages(2, 1), limit: 2, wantSeqs: []int64{1, 2}},
		{name: "before", mode: types.PageModeBefore, rows: testMessages(5, 4, 3), limit: 2, wantSeqs: []int64{4, 5}, wantHasMore: true},
		{name: "after", mode: types.PageModeAfter, rows: testMessages(6, 7, 8), limit: 2, wantSeqs: []int64{6, 7}, wantHasMore: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			page := types.MessagesPage{Messages: tc.rows}
			if err := applyPageMeta(&page, tc.mode, tc.limit, nil); err != nil {
				t.Fatal(err)
			}

			if got := seqsOf(page.Messages); !reflect.DeepEqual(tc.wantSeqs, got) {
				t.Errorf("want seqs %v; got %v", tc.wantSeqs, got)
			}

			if page.Meta.HasMore != tc.wantHasMore {
				t.Errorf("want has more %v; got %v", tc.wantHasMore, page.Meta.HasMore)
			}

			oldest := page.Messages[0]
			newest := page.Messages[len(page.Messages)-1]
			if !page.Meta.OldestAt.Equal(oldest.CreatedAt) || !page.Meta.NewestAt.Equal(newest.CreatedAt) {
				t.Errorf("unexpected bounds %v %v", page.Meta.OldestAt, page.Meta.NewestAt)
			}

			c, err := ParseMessageCursor(*page.Meta.OldestCursor, tc.mode)
			if err != nil {
				t.Fatal(err)
			}
			if c.Seq != oldest.Seq {
				t.Errorf("want oldest cursor seq %d; got %d", oldest.Seq, c.Seq)
			}
		})
	}
}

func TestApplyPageMeta_emptyAfterEchoesCursor(t *testing.T) {
	from := MessageCursor{CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Seq: 7}
	page := types.MessagesPage{}
	if err := applyPageMeta(&page, types.PageModeAfter, 10, &from); err != nil {
		t.Fatal(err)
	}

	if page.Messages == nil || len(page.Messages) != 0 {
		t.Errorf("want empty non nil messages; got %v", page.Messages)
	}

	if page.Meta.NewestCursor == nil || page.Meta.HasMore {
		t.Fatalf("unexpected meta %+v", page.Meta)
	}

	got, err := ParseMessageCursor(*page.Meta.NewestCursor, types.PageModeAfter)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seq != from.Seq || !got.CreatedAt.Equal(from.CreatedAt) {
		t.Errorf("want %+v; got %+v", from, got)
	}
}
