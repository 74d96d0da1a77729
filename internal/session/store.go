package session

import "sync"

const shardCount = 32

type shard struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex
}

// Store keeps sessions in memory, sharded by user ID. Update serializes all
// mutations for one user, so two racing updates from the same chat cannot
// interleave their state transitions.
type Store struct {
	shards [shardCount]*shard
}

// NewStore builds an empty session store.
func NewStore() *Store {
	st := &Store{}
	for i := range st.shards {
		st.shards[i] = &shard{
			sessions: make(map[int64]*Session),
			locks:    make(map[int64]*sync.Mutex),
		}
	}
	return st
}

func (st *Store) shardFor(userID int64) *shard {
	idx := uint64(userID) % shardCount
	return st.shards[idx]
}

func (sh *shard) userLock(userID int64) *sync.Mutex {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	lock, ok := sh.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		sh.locks[userID] = lock
	}
	return lock
}

// Update runs fn with exclusive access to the user's session, creating a
// fresh session on first contact. fn receives the live session and may
// mutate it in place.
func (st *Store) Update(userID int64, fn func(s *Session)) {
	sh := st.shardFor(userID)
	lock := sh.userLock(userID)

	lock.Lock()
	defer lock.Unlock()

	sh.mu.Lock()
	s, ok := sh.sessions[userID]
	if !ok {
		s = &Session{Stage: StageInit}
		sh.sessions[userID] = s
	}
	sh.mu.Unlock()

	fn(s)
}

// Peek returns a copy of the user's session, or a zero-value session when the
// user has never interacted.
func (st *Store) Peek(userID int64) (Session, bool) {
	sh := st.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if s, ok := sh.sessions[userID]; ok {
		return *s, true
	}
	return Session{Stage: StageInit}, false
}

// Delete removes the user's session.
func (st *Store) Delete(userID int64) {
	sh := st.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.sessions, userID)
	delete(sh.locks, userID)
}

// Len reports the number of tracked sessions.
func (st *Store) Len() int {
	total := 0
	for _, sh := range st.shards {
		sh.mu.Lock()
		total += len(sh.sessions)
		sh.mu.Unlock()
	}
	return total
}
