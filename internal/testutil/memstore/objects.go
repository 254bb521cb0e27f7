package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hibiken/asynq"
)

type object struct {
	data        []byte
	contentType string
}

// ObjectStorage is an in-memory storage.ObjectStorage. URLs use the
// memory:// scheme.
type ObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]object

	// FailUpload makes Upload return an error.
	FailUpload bool
}

func NewObjectStorage() *ObjectStorage {
	return &ObjectStorage{objects: map[string]object{}}
}

func (o *ObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if o.FailUpload {
		return "", fmt.Errorf("upload %s: storage unavailable", key)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	o.objects[key] = object{data: cp, contentType: contentType}
	return o.URL(key), nil
}

func (o *ObjectStorage) Download(_ context.Context, key string) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	obj, ok := o.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, nil
}

func (o *ObjectStorage) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.objects, key)
	return nil
}

func (o *ObjectStorage) DeleteByPrefix(_ context.Context, prefix string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for key := range o.objects {
		if strings.HasPrefix(key, prefix) {
			delete(o.objects, key)
		}
	}
	return nil
}

func (o *ObjectStorage) URL(key string) string {
	return "memory://posts/" + key
}

// Keys returns the stored keys in sorted order.
func (o *ObjectStorage) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	keys := make([]string, 0, len(o.objects))
	for key := range o.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (o *ObjectStorage) ContentType(key string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.objects[key].contentType
}

// TaskRecorder is a queue.Enqueuer that keeps tasks instead of sending them.
type TaskRecorder struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (t *TaskRecorder) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tasks = append(t.tasks, task)
	return &asynq.TaskInfo{Type: task.Type(), Payload: task.Payload()}, nil
}

func (t *TaskRecorder) Tasks() []*asynq.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*asynq.Task(nil), t.tasks...)
}

// TasksOfType filters recorded tasks by type name.
func (t *TaskRecorder) TasksOfType(taskType string) []*asynq.Task {
	var out []*asynq.Task
	for _, task := range t.Tasks() {
		if task.Type() == taskType {
			out = append(out, task)
		}
	}
	return out
}
