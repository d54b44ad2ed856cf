package tests

import (
	"context"
	"sync"
)

type mockAiClient struct {
	mu             sync.Mutex
	responsesQueue []struct {
		response string
		err      error
	}
}

func (m *mockAiClient) GenerateResponse(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := m.responsesQueue[0]
	m.responsesQueue = m.responsesQueue[1:]
	return res.response, res.err
}

func (m *mockAiClient) enqueue(response string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responsesQueue = append(m.responsesQueue, struct {
		response string
		err      error
	}{response: response, err: err})
}
