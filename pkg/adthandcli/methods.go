package adthandcli

import (
	"github.com/adthand/adthand/internal/protocol"
)

// Ping checks that the daemon is alive and answering.
func (c *Client) Ping() error {
	_, err := c.invoke(protocol.RequestPing, protocol.AnswerPing)
	return err
}

// Kill asks the daemon to shut down. The daemon sends no answer.
func (c *Client) Kill() error {
	_, err := c.exchange(protocol.RequestKill)
	return err
}

// Next returns the upcoming event. The answer is not Determined until
// the daemon has scheduled its first event.
func (c *Client) Next() (*protocol.Answer, error) {
	return c.invoke(protocol.RequestNext, protocol.AnswerNext)
}

// All returns every event of the current day, in order.
func (c *Client) All() ([]protocol.Entry, error) {
	a, err := c.invoke(protocol.RequestAll, protocol.AnswerAll)
	if err != nil {
		return nil, err
	}
	return a.Entries, nil
}

// Waybar returns the next event together with the whole day.
func (c *Client) Waybar() (*protocol.Answer, error) {
	return c.invoke(protocol.RequestWaybar, protocol.AnswerWaybar)
}
