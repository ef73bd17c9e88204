package services

import "sync"

// Session holds the browsing state of one user session: the active device
// and the current remote/local directories. Single-writer: only the context
// issuing navigation commands mutates it; transfer callbacks read snapshots
// and never write back.
type Session struct {
	mu         sync.RWMutex
	deviceID   string
	remotePath string
	localPath  string
}

// NewSession creates a session positioned at the given starting directories.
func NewSession(deviceID, remotePath, localPath string) *Session {
	return &Session{
		deviceID:   deviceID,
		remotePath: remotePath,
		localPath:  localPath,
	}
}

func (s *Session) DeviceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceID
}

func (s *Session) SetDeviceID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceID = id
}

func (s *Session) RemotePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remotePath
}

func (s *Session) SetRemotePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remotePath = path
}

func (s *Session) LocalPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localPath
}

func (s *Session) SetLocalPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localPath = path
}
