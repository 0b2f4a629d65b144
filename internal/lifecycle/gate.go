package lifecycle

import "sync"

// Gate допускает не более одной операции на код активации одновременно.
type Gate struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewGate создает пустой Gate.
func NewGate() *Gate {
	return &Gate{inFlight: make(map[string]struct{})}
}

// TryAcquire занимает слот кода. false, если слот уже занят.
func (g *Gate) TryAcquire(code string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[code]; busy {
		return false
	}
	g.inFlight[code] = struct{}{}
	return true
}

// Release освобождает слот кода.
func (g *Gate) Release(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, code)
}

// InFlight сообщает, занят ли слот кода.
func (g *Gate) InFlight(code string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[code]
	return busy
}
