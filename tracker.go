package sigslot

// A Tracker observes the lifetime of one tasklet. Attach one with
// [Tasklet.Track] before starting the tasklet.
//
// The frame delivers exactly one terminal callback and then releases the
// tracker: Terminate when the body returns normally or when the frame is
// destroyed without ever completing, Exception when the body fails.
type Tracker interface {
	Terminate()
	Exception(err error)
}

// TrackerBase is a no-op [Tracker] for embedding, so trackers only
// implement the callbacks they care about.
type TrackerBase struct{}

// Terminate implements the [Tracker] interface.
func (TrackerBase) Terminate() {}

// Exception implements the [Tracker] interface.
func (TrackerBase) Exception(err error) {}
