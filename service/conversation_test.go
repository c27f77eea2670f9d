package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	if testCockroach == nil {
		t.Skip("integration tests disabled")
	}

	return New(&Config{Cockroach: testCockroach})
}

func createTestUser(t *testing.T, name string, role types.Role) types.User {
	t.Helper()

	u := types.User{Name: name, Email: randomEmail(t), Role: role}
	id, err := testCockroach.CreateUser(t.Context(), u)
	if err != nil {
		t.Fatal(err)
	}

	u.ID = id
	return u
}

func ctxOf(t *testing.T, u types.User) context.Context {
	return ctxAs(t.Context(), u.ID, u.Role)
}

func getOrCreate(t *testing.T, svc *Service, from, to types.User, jobID *string) types.Conversation {
	t.Helper()

	c, err := svc.GetOrCreateConversation(ctxOf(t, from), types.GetOrCreateConversation{OtherUserID: to.ID, JobID: jobID})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestService_GetOrCreateConversation_dedup(t *testing.T) {
	svc := newTestService(t)
	a := createTestUser(t, "Ana", types.RoleCandidate)
	b := createTestUser(t, "Bob", types.RoleRecruiter)

	first := getOrCreate(t, svc, a, b, nil)
	for i, c := range []types.Conversation{
		getOrCreate(t, svc, b, a, nil),
		getOrCreate(t, svc, a, b, nil),
		getOrCreate(t, svc, b, a, nil),
	} {
		if c.ID != first.ID {
			t.Errorf("call %d: want conversation %s; got %s", i, first.ID, c.ID)
		}
	}

	if want := map[string]int{a.ID: 0, b.ID: 0}; !reflect.DeepEqual(want, first.UnreadCounts) {
		t.Errorf("want unread counts %v; got %v", want, first.UnreadCounts)
	}

	if _, ok := first.LastReadAt[a.ID]; !ok {
		t.Error("creator read timestamp must be set")
	}

	if _, ok := first.LastReadAt[b.ID]; ok {
		t.Error("other participant read timestamp must not be set on creation")
	}

	if len(first.Users) != 2 {
		t.Errorf("want participant display data; got %+v", first.Users)
	}

	// Finding the conversation initializes the requester read timestamp.
	again := getOrCreate(t, svc, b, a, nil)
	if _, ok := again.LastReadAt[b.ID]; !ok {
		t.Error("requester read timestamp must be set when finding")
	}
	if !again.LastReadAt[a.ID].Equal(first.LastReadAt[a.ID]) {
		t.Error("creator read timestamp must not change")
	}
}

func TestService_GetOrCreateConversation_jobScope(t *testing.T) {
	svc := newTestService(t)
	a := createTestUser(t, "Ana", types.RoleCandidate)
	b := createTestUser(t, "Bob", types.RoleRecruiter)

	jobID, err := testCockroach.CreateJob(t.Context(), b.ID, types.Job{Title: "Backend Engineer", Organization: "Acme"})
	if err != nil {
		t.Fatal(err)
	}

	unscoped := getOrCreate(t, svc, a, b, nil)
	scoped := getOrCreate(t, svc, a, b, &jobID)
	if unscoped.ID == scoped.ID {
		t.Fatal("scoped and unscoped conversations must differ")
	}

	if again := getOrCreate(t, svc, b, a, &jobID); again.ID != scoped.ID {
		t.Errorf("want scoped conversation %s; got %s", scoped.ID, again.ID)
	}

	if scoped.Job == nil || scoped.Job.Title != "Backend Engineer" {
		t.Errorf("want job display data; got %+v", scoped.Job)
	}
}

func TestService_GetOrCreateConversation_mixedCaseIDs(t *testing.T) {
	svc := newTestService(t)
	a := createTestUser(t, "Ana", types.RoleCandidate)
	b := createTestUser(t, "Bob", types.RoleRecruiter)

	jobID, err := testCockroach.CreateJob(t.Context(), b.ID, types.Job{Title: "Data Engineer", Organization: "Acme"})
	if err != nil {
		t.Fatal(err)
	}

	first := getOrCreate(t, svc, a, b, &jobID)

	upperB := b
	upperB.ID = strings.ToUpper(b.ID)
	upperA := a
	upperA.ID = strings.ToUpper(a.ID)

	for i, c := range []types.Conversation{
		getOrCreate(t, svc, a, upperB, new(strings.ToUpper(jobID))),
		getOrCreate(t, svc, upperA, b, &jobID),
		getOrCreate(t, svc, upperB, a, new(strings.ToUpper(jobID))),
	} {
		if c.ID != first.ID {
			t.Errorf("call %d: want conversation %s; got %s", i, first.ID, c.ID)
		}
	}

	_, err = svc.GetOrCreateConversation(ctxOf(t, a), types.GetOrCreateConversation{OtherUserID: upperA.ID})
	if !errors.Is(err, errs.InvalidArgument) {
		t.Errorf("want invalid argument for self conversation; got %v", err)
	}

	got, err := svc.Conversation(ctxOf(t, upperA), types.RetrieveConversation{ConversationID: strings.ToUpper(first.ID)})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != first.ID {
		t.Errorf("want conversation %s; got %s", first.ID, got.ID)
	}
}

func TestService_GetOrCreateConversation_concurrent(t *testing.T) {
	svc := newTestService(t)
	a := createTestUser(t, "Ana", types.RoleCandidate)
	b := createTestUser(t, "Bob", types.RoleRecruiter)

	const n = 10
	ids := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		from, to := a, b
		if i%2 == 1 {
			from, to = b, a
		}

		wg.Go(func() {
			c, err := svc.GetOrCreateConversation(ctxOf(t, from), types.GetOrCreateConversation{OtherUserID: to.ID})
			ids[i], errs[i] = c.ID, err
		})
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("call %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("call %d: want conversation %s; got %s", i, ids[0], ids[i])
		}
	}
}

func TestService_MarkConversationRead_idempotent(t *testing.T) {
	svc := newTestService(t)
	a := createTestUser(t, "Ana", types.RoleCandidate)
	b := createTestUser(t, "Bob", types.RoleRecruiter)

	c := getOrCreate(t, svc, a, b, nil)
	sendText(t, svc, a, c.ID, "Hello")

	first, err := svc.MarkConversationRead(ctxOf(t, b), types.MarkConversationRead{ConversationID: c.ID})
	if err != nil {
		t.Fatal(err)
	}

	if !first.Updated || first.UnreadCount != 0 || first.LastReadAt == nil {
		t.Fatalf("unexpected first ack %+v", first)
	}

	second, err := svc.MarkConversationRead(ctxOf(t, b), types.MarkConversationRead{ConversationID: c.ID})
	if err != nil {
		t.Fatal(err)
	}

	if second.Updated || second.UnreadCount != 0 {
		t.Errorf("want no-op second ack; got %+v", second)
	}

	if second.LastReadAt == nil || second.LastReadAt.Before(*first.LastReadAt) {
		t.Errorf("read timestamp regressed from %v to %v", first.LastReadAt, second.LastReadAt)
	}
}

func TestService_Conversations(t *testing.T) {
	svc := newTestService(t)
	a := createTestUser(t, "Ana", types.RoleCandidate)
	b := createTestUser(t, "Bob", types.RoleRecruiter)
	c := createTestUser(t, "Cleo", types.RoleRecruiter)

	withB := getOrCreate(t, svc, a, b, nil)
	withC := getOrCreate(t, svc, a, c, nil)

	sendText(t, svc, b, withB.ID, "one")
	sendText(t, svc, c, withC.ID, "two")
	sendText(t, svc, c, withC.ID, "three")

	got, err := svc.Conversations(ctxOf(t, a), types.ListConversations{})
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("want 2 conversations; got %d", len(got))
	}

	if got[0].ID != withC.ID || got[1].ID != withB.ID {
		t.Errorf("want most recent activity first; got %s, %s", got[0].ID, got[1].ID)
	}

	if got[0].UnreadCount != 2 || got[1].UnreadCount != 1 {
		t.Errorf("want caller unread 2 and 1; got %d and %d", got[0].UnreadCount, got[1].UnreadCount)
	}

	if got[0].LastMessagePreview != "three" {
		t.Errorf("want preview %q; got %q", "three", got[0].LastMessagePreview)
	}
}

func TestService_nonParticipant(t *testing.T) {
	svc := newTestService(t)
	a := createTestUser(t, "Ana", types.RoleCandidate)
	b := createTestUser(t, "Bob", types.RoleRecruiter)
	x := createTestUser(t, "Xena", types.RoleCandidate)

	c := getOrCreate(t, svc, a, b, nil)

	_, err := svc.SendMessage(ctxOf(t, x), types.SendMessage{ConversationID: c.ID, Text: "hi"})
	if !errors.Is(err, errs.PermissionDenied) {
		t.Errorf("send: want permission denied; got %v", err)
	}

	_, err = svc.Messages(ctxOf(t, x), types.ListMessages{ConversationID: c.ID})
	if !errors.Is(err, errs.PermissionDenied) {
		t.Errorf("messages: want permission denied; got %v", err)
	}

	_, err = svc.MarkConversationRead(ctxOf(t, x), types.MarkConversationRead{ConversationID: c.ID})
	if !errors.Is(err, errs.PermissionDenied) {
		t.Errorf("mark read: want permission denied; got %v", err)
	}

	_, err = svc.Conversation(ctxOf(t, a), types.RetrieveConversation{ConversationID: "16fd2706-8baf-433b-82eb-8c7fada847da"})
	if !errors.Is(err, errs.NotFound) {
		t.Errorf("retrieve: want not found; got %v", err)
	}

	got, err := svc.Conversation(ctxOf(t, a), types.RetrieveConversation{ConversationID: c.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got.LastMessagePreview != "" || got.UnreadCounts[b.ID] != 0 {
		t.Errorf("rejected calls must not change the conversation; got %+v", got)
	}
}
