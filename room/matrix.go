package room

import (
	"errors"
	"fmt"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

type Matrix struct {
	hs string

	client *mautrix.Client
}

func NewMatrix(homeserverURL, homeserver, userId, token string) (m *Matrix, err error) {
	client, err := mautrix.NewClient(homeserverURL, id.NewUserID(userId, homeserver), token)
	if err != nil {
		return
	}

	m = &Matrix{
		client: client,
		hs:     homeserver,
	}
	return
}

// GetRoom resolves the room alias name on our homeserver, returning an empty
// roomid if the alias doesn't exist. Notify relies on the empty roomid to
// tell a missing room apart from a failed lookup.
func (m *Matrix) GetRoom(name string) (roomid string, err error) {
	resp, err := m.client.ResolveAlias(id.NewRoomAlias(name, m.hs))
	if err == nil {
		return resp.RoomID.String(), nil
	}
	var e mautrix.HTTPError
	// If error is not room not found, we should return directly.
	if errors.As(err, &e) && e.IsStatus(404) {
		return "", nil
	}
	return "", err
}

// Notify sends text as a notice into the room aliased by name.
func (m *Matrix) Notify(name, text string) (err error) {
	roomid, err := m.GetRoom(name)
	if err != nil {
		return fmt.Errorf("get room %s: %w", name, err)
	}
	if roomid == "" {
		return fmt.Errorf("room %s not found", name)
	}

	_, err = m.client.SendNotice(id.RoomID(roomid), text)
	if err != nil {
		return fmt.Errorf("send notice to %s: %w", roomid, err)
	}
	return nil
}
