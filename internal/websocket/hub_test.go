package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	userA := uuid.New()
	userB := uuid.New()

	client1 := newMockClient("client-1", userA)
	client2 := newMockClient("client-2", userA)
	client3 := newMockClient("client-3", userB)

	// Register clients
	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	// Verify counts
	assert.Equal(t, 2, hub.ClientCount(userA))
	assert.Equal(t, 1, hub.ClientCount(userB))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	// Unregister one of user A's clients
	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(userA))

	// Unregister remaining clients
	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(userA))
	assert.Equal(t, 0, hub.ClientCount(userB))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_UserIsolation(t *testing.T) {
	hub := NewHub()

	userA := uuid.New()
	userB := uuid.New()

	// Two clients for user A
	clientA1 := newMockClient("client-a1", userA)
	clientA2 := newMockClient("client-a2", userA)

	// One client for user B
	clientB := newMockClient("client-b", userB)

	hub.Register(clientA1)
	hub.Register(clientA2)
	hub.Register(clientB)

	// Broadcast to user A
	evt := ExpenseCreated(map[string]interface{}{"id": float64(42)})
	hub.Broadcast(userA, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	// User A's clients should receive the message
	msgsA1 := clientA1.GetMessages()
	msgsA2 := clientA2.GetMessages()
	assert.Len(t, msgsA1, 1, "clientA1 should receive 1 message")
	assert.Len(t, msgsA2, 1, "clientA2 should receive 1 message")

	// User B's client should NOT receive the message
	msgsB := clientB.GetMessages()
	assert.Len(t, msgsB, 0, "clientB should not receive another user's event")
}

func TestHub_Broadcast_MultipleFanOut(t *testing.T) {
	hub := NewHub()

	userID := uuid.New()

	// Create multiple clients for the same user
	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient("client-"+string(rune('a'+i)), userID)
		hub.Register(clients[i])
	}

	// Broadcast event
	evt := ExpenseUpdated(map[string]interface{}{"id": float64(1)})
	hub.Broadcast(userID, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	// All clients should receive the message
	for i, c := range clients {
		msgs := c.GetMessages()
		assert.Len(t, msgs, 1, "client %d should receive message", i)
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	userCount := 5
	clientCount := 50

	users := make([]uuid.UUID, userCount)
	for i := 0; i < userCount; i++ {
		users[i] = uuid.New()
	}

	// Concurrently register clients
	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient("client-"+string(rune(i)), users[i%userCount])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}

	wg.Wait()

	// Verify total is correct (10 per user, 5 users)
	total := 0
	for _, u := range users {
		total += hub.ClientCount(u)
	}
	assert.Equal(t, clientCount, total)

	// Concurrently broadcast and unregister
	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			evt := ExpenseCreated(map[string]interface{}{"id": float64(idx)})
			hub.Broadcast(users[idx%userCount], evt)
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}

	wg.Wait()

	// After unregistering all, counts should be 0
	for _, u := range users {
		assert.Equal(t, 0, hub.ClientCount(u))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", uuid.New())

	// Should not panic when unregistering a client that was never registered
	require.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_BroadcastToUnknownUser(t *testing.T) {
	hub := NewHub()

	// Should not panic when broadcasting to a user with no clients
	require.NotPanics(t, func() {
		evt := ExpenseCreated(map[string]interface{}{"id": float64(1)})
		hub.Broadcast(uuid.New(), evt)
	})
}
