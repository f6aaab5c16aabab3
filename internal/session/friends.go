// Friends event handling: the thin CRUD surface over the same
// {event, data} channel as the game protocol, following the shape of
// the other handlers in events.go.

package session

import (
	"encoding/json"

	"chessd/internal/friends"
	"chessd/internal/proto"
)

func (o *Orchestrator) handleFriendEvent(c *client, event string, data json.RawMessage) {
	if o.Friends == nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: "friends-unavailable"})
		return
	}

	if event == proto.EventFriendsGet {
		req, ok := decode[proto.FriendsGetRequest](data)
		if !ok {
			c.send(proto.EventError, proto.ErrorMessage{Message: "malformed friends-get request"})
			return
		}
		c.send(proto.EventFriendsList, proto.FriendsList{Usernames: o.Friends.Get(req.Username)})
		return
	}

	req, ok := decode[proto.FriendActionRequest](data)
	if !ok {
		c.send(proto.EventError, proto.ErrorMessage{Message: "malformed friend request"})
		return
	}

	var err error
	switch event {
	case proto.EventFriendSend:
		err = o.Friends.Send(req.Username, req.Other)
	case proto.EventFriendAccept:
		err = o.Friends.Accept(req.Username, req.Other)
	case proto.EventFriendDecline:
		err = o.Friends.Decline(req.Username, req.Other)
	case proto.EventFriendRemove:
		err = o.Friends.Remove(req.Username, req.Other)
	}
	if err != nil {
		c.send(proto.EventError, proto.ErrorMessage{Message: err.Error()})
		return
	}

	c.send(proto.EventFriendsList, proto.FriendsList{Usernames: o.Friends.Get(req.Username)})
}

var _ friends.Store = (*friends.MemoryStore)(nil)
