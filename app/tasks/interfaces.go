package tasks

// TaskSchedulerInterface defines the interface for task scheduling
// operations. Used by the main application to manage background syncing and
// by the edit pipeline to request a collection refresh after a confirmed
// update.
// Example usage:
//
//	scheduler := NewScheduler(client, recordStore)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.RequestRefresh()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RequestRefresh() error
}
