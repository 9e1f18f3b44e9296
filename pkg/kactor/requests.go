package kactor

import "context"

// The Dispatcher (actor.go) switches on these types. Handlers never call
// one another recursively — each is invoked exactly once per dequeue.

type subscribeTopicsMsg struct {
	ctx       context.Context
	requestID string
	topics    []string
	result    *Completable[error]
}

type subscribePatternMsg struct {
	ctx       context.Context
	requestID string
	pattern   string
	result    *Completable[error]
}

type assignMsg struct {
	ctx       context.Context
	requestID string
	tps       []TP
	result    *Completable[error]
}

type unsubscribeMsg struct {
	ctx       context.Context
	requestID string
	result    *Completable[error]
}

type assignmentResult struct {
	tps []TP
	err error
}

type assignmentMsg struct {
	listener *RebalanceListener
	result   *Completable[assignmentResult]
}

type fetchMsg struct {
	requestID string
	tp        TP
	streamID  StreamID
	psid      PartitionStreamID
	token     FetchToken
}

type commitMsg struct {
	req *CommitRequest
}

type pollMsg struct{}
