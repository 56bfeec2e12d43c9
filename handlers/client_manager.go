package handlers

import (
	"sync"

	"digdug/server/services"
)

// ClientManager keeps track of the connected viewers
type ClientManager struct {
	clients map[string]services.Client // Map connection ID to client
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]services.Client),
	}
}

// AddClient registers a viewer. It returns false if it was already registered.
func (cm *ClientManager) AddClient(client services.Client) bool {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if _, ok := cm.clients[client.ID()]; ok {
		return false
	}
	cm.clients[client.ID()] = client
	return true
}

// RemoveClient removes a client from the manager
func (cm *ClientManager) RemoveClient(id string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, id)
}

// Count is the number of registered viewers
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// BroadcastToAll sends a message to every viewer, dropping the ones whose
// connection is gone
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	var failed []string
	for id, client := range cm.clients {
		if err := client.SendMessage(msg); err != nil {
			log.WithError(err).WithField("conn", id).Debug("Error broadcasting to viewer")
			failed = append(failed, id)
		}
	}
	cm.mutex.RUnlock()

	for _, id := range failed {
		cm.RemoveClient(id)
	}
}
