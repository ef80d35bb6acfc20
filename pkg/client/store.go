package client

import (
	"sync"
	"time"

	"github.com/yeisme/cloudspace/pkg/internal/types"
)

// NotificationLevel 提示级别.
type NotificationLevel string

const (
	NoticeInfo  NotificationLevel = "info"
	NoticeError NotificationLevel = "error"
)

// Notification 是一条面向用户的瞬态提示.
type Notification struct {
	ID      string            `json:"id"`
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

// State 是展示层可见的完整状态快照.
// 切片与 map 在每次变更时整体替换，订阅方只读不改.
type State struct {
	MyFiles       []types.FileDisplay
	RecentFiles   []types.FileDisplay
	TrashFiles    []types.FileDisplay
	Folders       []string
	Uploads       []UploadTask
	Usage         *types.StorageUsageResponse
	Notifications []Notification
}

// ActionType 标识一次状态迁移.
type ActionType string

const (
	ActionSetMyFiles     ActionType = "set_my_files"
	ActionSetRecentFiles ActionType = "set_recent_files"
	ActionSetTrashFiles  ActionType = "set_trash_files"
	ActionSetUsage       ActionType = "set_usage"
	ActionAddFolder      ActionType = "add_folder"
	ActionUpsertUpload   ActionType = "upsert_upload"
	ActionRemoveUpload   ActionType = "remove_upload"
	ActionRemoveFile     ActionType = "remove_file" // 从所有列表乐观移除
	ActionNotify         ActionType = "notify"
	ActionDismissNotice  ActionType = "dismiss_notice"
)

// Action 携带一次迁移的全部输入，只有与类型对应的字段有效.
type Action struct {
	Type   ActionType
	At     time.Time
	Files  []types.FileDisplay
	Usage  *types.StorageUsageResponse
	Folder string
	Upload *UploadTask
	FileID string
	Notice *Notification
	ID     string // remove_upload / dismiss_notice 的目标
}

// Store 是带动作日志的状态容器，每次变更通知订阅方.
type Store struct {
	mu      sync.RWMutex
	state   State
	actions []Action

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// NewStore 创建空状态的 Store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(State))}
}

// Dispatch 应用一个动作并通知订阅方.
func (s *Store) Dispatch(a Action) {
	if a.At.IsZero() {
		a.At = time.Now()
	}

	s.mu.Lock()
	s.state = reduce(s.state, a)
	s.actions = append(s.actions, a)
	snapshot := s.state
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// State 返回当前快照.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Actions 返回动作日志副本.
func (s *Store) Actions() []Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Action, len(s.actions))
	copy(out, s.actions)

	return out
}

// Subscribe 注册状态变更回调，返回取消函数.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// reduce 是纯函数：旧状态加动作得到新状态，不修改旧状态的切片.
func reduce(st State, a Action) State {
	switch a.Type {
	case ActionSetMyFiles:
		st.MyFiles = a.Files
	case ActionSetRecentFiles:
		st.RecentFiles = a.Files
	case ActionSetTrashFiles:
		st.TrashFiles = a.Files
	case ActionSetUsage:
		st.Usage = a.Usage
	case ActionAddFolder:
		st.Folders = appendUnique(st.Folders, a.Folder)
	case ActionUpsertUpload:
		st.Uploads = upsertUpload(st.Uploads, a.Upload)
	case ActionRemoveUpload:
		st.Uploads = removeUpload(st.Uploads, a.ID)
	case ActionRemoveFile:
		st.MyFiles = removeFile(st.MyFiles, a.FileID)
		st.RecentFiles = removeFile(st.RecentFiles, a.FileID)
		st.TrashFiles = removeFile(st.TrashFiles, a.FileID)
	case ActionNotify:
		if a.Notice != nil {
			notices := make([]Notification, len(st.Notifications), len(st.Notifications)+1)
			copy(notices, st.Notifications)
			st.Notifications = append(notices, *a.Notice)
		}
	case ActionDismissNotice:
		st.Notifications = removeNotice(st.Notifications, a.ID)
	}

	return st
}

func appendUnique(in []string, v string) []string {
	if v == "" {
		return in
	}

	for _, s := range in {
		if s == v {
			return in
		}
	}

	out := make([]string, len(in), len(in)+1)
	copy(out, in)

	return append(out, v)
}

func upsertUpload(in []UploadTask, t *UploadTask) []UploadTask {
	if t == nil {
		return in
	}

	out := make([]UploadTask, len(in), len(in)+1)
	copy(out, in)

	for i := range out {
		if out[i].ID == t.ID {
			out[i] = *t

			return out
		}
	}

	return append(out, *t)
}

func removeUpload(in []UploadTask, id string) []UploadTask {
	out := make([]UploadTask, 0, len(in))

	for _, t := range in {
		if t.ID != id {
			out = append(out, t)
		}
	}

	return out
}

func removeFile(in []types.FileDisplay, fileID string) []types.FileDisplay {
	out := make([]types.FileDisplay, 0, len(in))

	for _, f := range in {
		if f.ID != fileID {
			out = append(out, f)
		}
	}

	return out
}

func removeNotice(in []Notification, id string) []Notification {
	out := make([]Notification, 0, len(in))

	for _, n := range in {
		if n.ID != id {
			out = append(out, n)
		}
	}

	return out
}
