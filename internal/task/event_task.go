package task

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/events"
)

// EventTask delivers one session event to one handler.
type EventTask struct {
	id      uuid.UUID
	event   *events.SessionEvent
	handler events.EventHandler
	// values carries request-scoped values such as the trace logger.
	values context.Context
}

var _ Task = (*EventTask)(nil)

// NewEventTask creates a task that calls handler.HandleEvent with event.
// Values from ctx stay visible to the handler but its cancellation does not.
func NewEventTask(ctx context.Context, handler events.EventHandler, event *events.SessionEvent) *EventTask {
	return &EventTask{
		id:      uuid.New(),
		event:   event,
		handler: handler,
		values:  context.WithoutCancel(ctx),
	}
}

// ID implements Task.
func (t *EventTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *EventTask) Type() string { return TaskTypeSessionEvent }

// Event returns the event being delivered.
func (t *EventTask) Event() *events.SessionEvent { return t.event }

// Execute implements Task. The handler sees the request values and the
// worker's cancellation.
func (t *EventTask) Execute(ctx context.Context) error {
	execCtx, cancel := context.WithCancel(t.values)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return t.handler.HandleEvent(execCtx, t.event)
}

// AsyncEventHandler is an events.EventHandler that queues delivery to the
// wrapped handler instead of calling it inline. HandleEvent fails only when
// the queue rejects the task.
type AsyncEventHandler struct {
	queue   TaskQueueWriter
	handler events.EventHandler
	logger  *slog.Logger
}

var _ events.EventHandler = (*AsyncEventHandler)(nil)

// NewAsyncEventHandler wraps handler so that events are delivered by the
// workers reading queue. If logger is nil, the default logger is used.
func NewAsyncEventHandler(queue TaskQueueWriter, handler events.EventHandler, logger *slog.Logger) *AsyncEventHandler {
	if queue == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("queue cannot be nil")
	}
	if handler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("handler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncEventHandler{
		queue:   queue,
		handler: handler,
		logger:  logger.With("component", "async_event_handler"),
	}
}

// HandleEvent implements events.EventHandler.
func (h *AsyncEventHandler) HandleEvent(ctx context.Context, event *events.SessionEvent) error {
	t := NewEventTask(ctx, h.handler, event)
	if err := h.queue.Enqueue(t); err != nil {
		h.logger.Warn("dropping session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return err
	}
	return nil
}
