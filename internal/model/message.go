package model

import "time"

// Message is a direct message between two users.
type Message struct {
	ID         int64     `json:"id"`
	FromUserID int64     `json:"fromUserId"`
	ToUserID   int64     `json:"toUserId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Connection is an undirected link between two users.
type Connection struct {
	ID        int64     `json:"id"`
	UserID1   int64     `json:"userId1"`
	UserID2   int64     `json:"userId2"`
	CreatedAt time.Time `json:"createdAt"`
}

// OtherUserID returns the participant that is not userID.
func (c *Connection) OtherUserID(userID int64) int64 {
	if c.UserID1 == userID {
		return c.UserID2
	}
	return c.UserID1
}

// Involves reports whether userID is either side of the connection.
func (c *Connection) Involves(userID int64) bool {
	return c.UserID1 == userID || c.UserID2 == userID
}

// PairKey orders two user ids so {a,b} and {b,a} share one key.
type PairKey struct {
	Low, High int64
}

// NewPairKey builds the canonical key for an unordered pair.
func NewPairKey(a, b int64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}
