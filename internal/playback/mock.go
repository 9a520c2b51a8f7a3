package playback

import "sync"

// MockEngine is a test double for Engine that records calls.
type MockEngine struct {
	mu      sync.Mutex
	onEvent EventHandler
	loads   []string
	token   uint64
	plays   int
	pauses  int
	volumes []int
	closed  bool
	loadErr error
}

func (m *MockEngine) Load(id string, token uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, id)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.token = token
	return nil
}

func (m *MockEngine) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	return nil
}

func (m *MockEngine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	return nil
}

func (m *MockEngine) SetVolume(v int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes = append(m.volumes, v)
	return nil
}

func (m *MockEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Emit delivers an event for the most recent successful load, as the real
// engine would.
func (m *MockEngine) Emit(ev Event) {
	m.EmitFor(m.Token(), ev)
}

// EmitFor delivers an event tagged with token.
func (m *MockEngine) EmitFor(token uint64, ev Event) {
	m.mu.Lock()
	h := m.onEvent
	m.mu.Unlock()
	if h != nil {
		h(token, ev)
	}
}

// Token returns the token of the most recent successful load.
func (m *MockEngine) Token() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// SetLoadError makes subsequent Load calls fail with err.
func (m *MockEngine) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *MockEngine) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

func (m *MockEngine) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

func (m *MockEngine) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *MockEngine) Volumes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.volumes...)
}

func (m *MockEngine) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockFactory builds a single MockEngine and counts how often it is asked to.
type MockFactory struct {
	mu      sync.Mutex
	Engine  *MockEngine
	Created int
	// Initial holds the video id passed on each creation.
	Initial []string
}

func NewMockFactory() *MockFactory {
	return &MockFactory{Engine: &MockEngine{}}
}

func (f *MockFactory) New(videoID string, token uint64, volume int, onEvent EventHandler) (Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created++
	f.Initial = append(f.Initial, videoID)
	f.Engine.mu.Lock()
	f.Engine.onEvent = onEvent
	f.Engine.token = token
	f.Engine.volumes = append(f.Engine.volumes, volume)
	f.Engine.mu.Unlock()
	return f.Engine, nil
}

func (f *MockFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Created
}
