package pubsub

import (
	"reflect"
	"testing"
)

func TestInmem(t *testing.T) {
	var ps Inmem
	var got []string

	unsub, err := ps.Sub("conversations.*.messages", func(data []byte) {
		got = append(got, string(data))
	})
	if err != nil {
		t.Fatal(err)
	}

	_ = ps.Pub("conversations.a.messages", []byte("one"))
	_ = ps.Pub("conversations.b.other", []byte("skip"))
	_ = ps.Pub("conversations.b.messages", []byte("two"))

	if err := unsub(); err != nil {
		t.Fatal(err)
	}

	_ = ps.Pub("conversations.a.messages", []byte("after unsub"))

	if want := []string{"one", "two"}; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v; got %v", want, got)
	}
}

func Test_subjectMatches(t *testing.T) {
	tt := []struct {
		pattern, subject string
		want             bool
	}{
		{"a.b", "a.b", true},
		{"a.*", "a.b", true},
		{"a.*", "a.b.c", false},
		{"a.>", "a.b.c", true},
		{"a.>", "a", false},
		{"a.b.c", "a.b", false},
	}
	for _, tc := range tt {
		if got := subjectMatches(tc.pattern, tc.subject); got != tc.want {
			t.Errorf("%q ~ %q: want %v; got %v", tc.pattern, tc.subject, tc.want, got)
		}
	}
}
