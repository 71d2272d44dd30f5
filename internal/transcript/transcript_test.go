package transcript

import (
	"fmt"
	"testing"

	"potluck/internal/models"
)

func msg(id, body string) models.Message {
	return models.Message{ID: id, SenderID: "peer", Body: body}
}

func TestAppendPreservesOrder(t *testing.T) {
	tr := New("peer")

	for i := 0; i < 5; i++ {
		tr.Append(msg(fmt.Sprintf("m%d", i), fmt.Sprintf("body %d", i)))
	}

	got := tr.Messages()
	if len(got) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(got))
	}
	for i, m := range got {
		if m.Body != fmt.Sprintf("body %d", i) {
			t.Errorf("index %d: got %q", i, m.Body)
		}
	}
}

func TestAppendDedupsById(t *testing.T) {
	tr := New("peer")

	if !tr.Append(msg("m1", "hello")) {
		t.Error("first append should succeed")
	}
	if tr.Append(msg("m1", "hello")) {
		t.Error("duplicate id should not append")
	}
	if tr.Len() != 1 {
		t.Errorf("expected 1 message, got %d", tr.Len())
	}

	// Pushes without ids cannot be deduplicated; they always append.
	if !tr.Append(msg("", "anon")) || !tr.Append(msg("", "anon")) {
		t.Error("messages without ids should always append")
	}
}

func TestReplaceKeepsDedupState(t *testing.T) {
	tr := New("peer")
	tr.Append(msg("stale", "old"))

	tr.Replace([]models.Message{msg("m1", "a"), msg("m2", "b")})

	if tr.Len() != 2 {
		t.Fatalf("expected 2 messages after replace, got %d", tr.Len())
	}
	if tr.Append(msg("m2", "b")) {
		t.Error("push racing a refetch should be deduplicated")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	a := r.Get("peer-a")
	if r.Get("peer-a") != a {
		t.Error("Get should return the same transcript for the same peer")
	}
	a.Append(msg("m1", "hi"))

	r.Drop("peer-a")
	if r.Get("peer-a").Len() != 0 {
		t.Error("Drop should discard the transcript")
	}

	r.Get("peer-b").Append(msg("m2", "yo"))
	r.Reset()
	if r.Get("peer-b").Len() != 0 {
		t.Error("Reset should discard all transcripts")
	}
}
