package console

import (
	"context"
	"sync"
	"time"

	"github.com/rmaloney/backoffice/internal/client"
	"github.com/rmaloney/backoffice/internal/query"
)

// UsersAPI defines the user operations the list view depends on
type UsersAPI interface {
	List(ctx context.Context, params client.ListParams) (*client.UserPage, error)
	Get(ctx context.Context, id string) (*client.User, error)
	Create(ctx context.Context, input client.CreateUserInput) (*client.User, error)
	Update(ctx context.Context, id string, input client.UpdateUserInput) (*client.User, error)
	Delete(ctx context.Context, id string) error
}

// ConfirmFunc asks the user to confirm a destructive action
type ConfirmFunc func(user *client.User) bool

// updateInput pairs a user id with its partial update payload
type updateInput struct {
	ID    string
	Input client.UpdateUserInput
}

// ListView drives the users list screen: a debounced search box, 1-based
// pagination, and create/update/delete actions that invalidate the list
// queries they affect.
type ListView struct {
	users   UsersAPI
	cache   *query.Cache
	confirm ConfirmFunc

	mu              sync.Mutex
	page            int
	limit           int
	search          string
	committedSearch string

	debouncer *Debouncer

	createMut *query.Mutation[client.CreateUserInput, *client.User]
	updateMut *query.Mutation[updateInput, *client.User]
	deleteMut *query.Mutation[string, struct{}]
}

// NewListView creates a list view over the given cache and API
func NewListView(cache *query.Cache, users UsersAPI, confirm ConfirmFunc, quiet time.Duration) *ListView {
	v := &ListView{
		users:   users,
		cache:   cache,
		confirm: confirm,
		page:    1,
		limit:   10,
	}
	v.debouncer = NewDebouncer(quiet, v.commitSearch)

	usersPrefix := query.NewKey("users")
	userPrefix := query.NewKey("user")

	v.createMut = query.NewMutation(cache, func(ctx context.Context, input client.CreateUserInput) (*client.User, error) {
		return users.Create(ctx, input)
	}).InvalidatesPrefix(usersPrefix)

	v.updateMut = query.NewMutation(cache, func(ctx context.Context, in updateInput) (*client.User, error) {
		return users.Update(ctx, in.ID, in.Input)
	}).InvalidatesPrefix(usersPrefix, userPrefix)

	v.deleteMut = query.NewMutation(cache, func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, users.Delete(ctx, id)
	}).InvalidatesPrefix(usersPrefix, userPrefix)

	return v
}

// SetSearch updates the live search input. The value is committed for
// fetching only after the quiet period elapses without further edits.
func (v *ListView) SetSearch(value string) {
	v.mu.Lock()
	v.search = value
	v.mu.Unlock()

	v.debouncer.Input(value)
}

// FlushSearch commits any pending search input immediately
func (v *ListView) FlushSearch() {
	v.debouncer.Flush()
}

// commitSearch applies the settled search value and resets to page 1
func (v *ListView) commitSearch(value string) {
	v.mu.Lock()
	if v.committedSearch != value {
		v.committedSearch = value
		v.page = 1
	}
	v.mu.Unlock()
}

// SetPage moves to the given 1-based page
func (v *ListView) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
}

// Page returns the current 1-based page
func (v *ListView) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Search returns the live (not yet committed) search input
func (v *ListView) Search() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

// Params returns the parameters the next load will fetch with
func (v *ListView) Params() client.ListParams {
	v.mu.Lock()
	defer v.mu.Unlock()
	return client.ListParams{
		Page:   v.page,
		Limit:  v.limit,
		Search: v.committedSearch,
	}
}

// key returns the cache key for the given list parameters
func (v *ListView) key(params client.ListParams) query.Key {
	return query.NewKey("users", params)
}

// Load fetches the current page through the query cache
func (v *ListView) Load(ctx context.Context) (*client.UserPage, error) {
	params := v.Params()
	return query.Get(ctx, v.cache, v.key(params), func(ctx context.Context) (*client.UserPage, error) {
		return v.users.List(ctx, params)
	})
}

// LoadUser fetches a single user through the query cache
func (v *ListView) LoadUser(ctx context.Context, id string) (*client.User, error) {
	return query.Get(ctx, v.cache, query.NewKey("user", id), func(ctx context.Context) (*client.User, error) {
		return v.users.Get(ctx, id)
	})
}

// Subscribe wakes the returned channel whenever the current page's cached
// data changes or is invalidated.
func (v *ListView) Subscribe() (<-chan struct{}, func()) {
	return v.cache.Subscribe(v.key(v.Params()))
}

// Create creates a user and invalidates the list queries on success
func (v *ListView) Create(ctx context.Context, input client.CreateUserInput) (*client.User, error) {
	return v.createMut.Trigger(ctx, input)
}

// Update applies a partial update and invalidates the affected queries
func (v *ListView) Update(ctx context.Context, id string, input client.UpdateUserInput) (*client.User, error) {
	return v.updateMut.Trigger(ctx, updateInput{ID: id, Input: input})
}

// Delete removes a user after explicit confirmation. It reports whether the
// deletion was confirmed; a declined confirmation is not an error.
func (v *ListView) Delete(ctx context.Context, user *client.User) (bool, error) {
	if v.confirm != nil && !v.confirm(user) {
		return false, nil
	}

	if _, err := v.deleteMut.Trigger(ctx, user.ID); err != nil {
		return true, err
	}
	return true, nil
}

// Close releases the view's timers
func (v *ListView) Close() {
	v.debouncer.Stop()
}
