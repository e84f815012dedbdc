package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matildaw/happy-thoughts-api/internal/queue"
	"github.com/matildaw/happy-thoughts-api/internal/repository"
	"github.com/matildaw/happy-thoughts-api/internal/utils"
)

// errBoom stands in for an infrastructure fault in fakes.
var errBoom = errors.New("store exploded")

// fakeThoughtStore is an in-memory ThoughtStore mirroring the MySQL
// repository's contract, including its sentinel errors.
type fakeThoughtStore struct {
	thoughts map[uint64]repository.Thought
	nextID   uint64
	failAll  bool
}

func newFakeThoughtStore() *fakeThoughtStore {
	return &fakeThoughtStore{thoughts: map[uint64]repository.Thought{}, nextID: 1}
}

func (s *fakeThoughtStore) add(userID uint64, message string, hearts uint64) repository.Thought {
	t := repository.Thought{
		ID:      s.nextID,
		Message: message,
		Hearts:  hearts,
		// spread creation times so sort order is deterministic
		CreatedAt: time.Unix(int64(1700000000+s.nextID*60), 0).UTC(),
		UserID:    userID,
	}
	s.thoughts[t.ID] = t
	s.nextID++
	return t
}

func (s *fakeThoughtStore) List(_ context.Context, q repository.ThoughtQuery) ([]repository.Thought, error) {
	if s.failAll {
		return nil, errBoom
	}
	out := []repository.Thought{}
	for _, t := range s.thoughts {
		if q.MinHearts != nil && t.Hearts < *q.MinHearts {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		var less bool
		if q.SortColumn == "hearts" {
			less = out[i].Hearts < out[j].Hearts
		} else {
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if q.Desc {
			return !less
		}
		return less
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *fakeThoughtStore) GetByID(_ context.Context, id uint64) (repository.Thought, error) {
	if s.failAll {
		return repository.Thought{}, errBoom
	}
	t, found := s.thoughts[id]
	if !found {
		return repository.Thought{}, sql.ErrNoRows
	}
	return t, nil
}

func (s *fakeThoughtStore) Create(_ context.Context, userID uint64, message string) (repository.Thought, error) {
	if s.failAll {
		return repository.Thought{}, errBoom
	}
	return s.add(userID, message, 0), nil
}

func (s *fakeThoughtStore) Like(_ context.Context, id uint64) (repository.Thought, error) {
	if s.failAll {
		return repository.Thought{}, errBoom
	}
	t, found := s.thoughts[id]
	if !found {
		return repository.Thought{}, sql.ErrNoRows
	}
	t.Hearts++
	s.thoughts[id] = t
	return t, nil
}

func (s *fakeThoughtStore) UpdateMessage(_ context.Context, id, callerID uint64, message string) (repository.Thought, error) {
	if s.failAll {
		return repository.Thought{}, errBoom
	}
	t, found := s.thoughts[id]
	if !found {
		return repository.Thought{}, sql.ErrNoRows
	}
	if t.UserID != callerID {
		return repository.Thought{}, repository.ErrForbidden
	}
	t.Message = message
	s.thoughts[id] = t
	return t, nil
}

func (s *fakeThoughtStore) Delete(_ context.Context, id, callerID uint64) (repository.Thought, error) {
	if s.failAll {
		return repository.Thought{}, errBoom
	}
	t, found := s.thoughts[id]
	if !found {
		return repository.Thought{}, sql.ErrNoRows
	}
	if t.UserID != callerID {
		return repository.Thought{}, repository.ErrForbidden
	}
	delete(s.thoughts, id)
	return t, nil
}

type likedKey struct{ userID, thoughtID uint64 }

// fakeUserStore is an in-memory UserStore with the repository's
// normalization and sentinel behavior.
type fakeUserStore struct {
	users    map[uint64]repository.User
	liked    map[likedKey]time.Time
	thoughts *fakeThoughtStore
	nextID   uint64
	failAll  bool
}

func newFakeUserStore(thoughts *fakeThoughtStore) *fakeUserStore {
	return &fakeUserStore{
		users:    map[uint64]repository.User{},
		liked:    map[likedKey]time.Time{},
		thoughts: thoughts,
		nextID:   1,
	}
}

func (s *fakeUserStore) Create(_ context.Context, email, password string, cost int) (repository.User, error) {
	if s.failAll {
		return repository.User{}, errBoom
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return repository.User{}, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return repository.User{}, err
	}
	token, err := utils.NewAccessToken()
	if err != nil {
		return repository.User{}, err
	}
	u := repository.User{ID: s.nextID, Email: email, PasswordHash: hash, AccessToken: token}
	s.users[u.ID] = u
	s.nextID++
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	if s.failAll {
		return repository.User{}, errBoom
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (repository.User, error) {
	if s.failAll {
		return repository.User{}, errBoom
	}
	u, found := s.users[id]
	if !found {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *fakeUserStore) AddLikedThought(_ context.Context, userID, thoughtID uint64) error {
	if s.failAll {
		return errBoom
	}
	k := likedKey{userID, thoughtID}
	if _, seen := s.liked[k]; !seen {
		s.liked[k] = time.Now()
	}
	return nil
}

func (s *fakeUserStore) ListLikedThoughts(_ context.Context, userID uint64) ([]repository.Thought, error) {
	if s.failAll {
		return nil, errBoom
	}
	out := []repository.Thought{}
	for k := range s.liked {
		if k.userID != userID {
			continue
		}
		if t, found := s.thoughts.thoughts[k.thoughtID]; found {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []queue.ThoughtEvent
}

func (p *recordingPublisher) PublishThoughtEvent(_ context.Context, ev queue.ThoughtEvent) error {
	p.events = append(p.events, ev)
	return nil
}

// doRequest runs a handler through a fresh Echo context and decodes the
// response envelope. userID == 0 leaves the request unauthenticated.
func doRequest(h echo.HandlerFunc, method, target, body string, userID uint64, params ...string) (int, testEnvelope) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if userID != 0 {
		c.Set("user_id", userID)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		panic(fmt.Sprintf("decode envelope: %v: %s", err, rec.Body.String()))
	}
	return rec.Code, env
}

// testEnvelope mirrors the wire format with a raw response payload.
type testEnvelope struct {
	Success  bool            `json:"success"`
	Response json.RawMessage `json:"response"`
	Message  string          `json:"message"`
}

func (e testEnvelope) thought() repository.Thought {
	var t repository.Thought
	if err := json.Unmarshal(e.Response, &t); err != nil {
		panic(err)
	}
	return t
}

func (e testEnvelope) thoughts() []repository.Thought {
	var ts []repository.Thought
	if err := json.Unmarshal(e.Response, &ts); err != nil {
		panic(err)
	}
	return ts
}
