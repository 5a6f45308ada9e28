package entity

import "time"

type ConnectionPhase string

const (
	ConnectionNone      ConnectionPhase = "none"
	ConnectionPending   ConnectionPhase = "pending"
	ConnectionReceived  ConnectionPhase = "received"
	ConnectionConnected ConnectionPhase = "connected"
	ConnectionWithdraw  ConnectionPhase = "withdraw"
	ConnectionRejected  ConnectionPhase = "rejected"
	ConnectionUnconnect ConnectionPhase = "unconnect"
)

// Connection is one side of a connection edge, stored under the owner.
type Connection struct {
	UserID    string          `json:"uid" firestore:"uid"`
	Phase     ConnectionPhase `json:"phase" firestore:"phase"`
	Timestamp time.Time       `json:"timestamp" firestore:"timestamp"`
}

type Follow struct {
	UserID    string    `json:"uid" firestore:"uid"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

type Block struct {
	UserID    string    `json:"uid" firestore:"uid"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
