// Package realtime implements the presence and messaging subsystem: a
// multi-room pub/sub layer over WebSocket that tracks online users across
// multiple connections per user, routes broadcast/private/context-scoped
// chat messages and typing indicators, and pushes domain notifications.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound event names accepted from clients.
const (
	eventJoin             = "join"
	eventBroadcastMessage = "broadcastMessage"
	eventPrivateMessage   = "privateMessage"
	eventWorkOrderMessage = "workOrderMessage"
	eventInvoiceMessage   = "invoiceMessage"
	eventCustomerMessage  = "customerMessage"
	eventTyping           = "typing"
	eventStopTyping       = "stopTyping"
	eventJoinRoom         = "joinRoom"
	eventLeaveRoom        = "leaveRoom"
)

// Outbound event names pushed to clients.
const (
	eventWelcome      = "welcome"
	eventUserOnline   = "userOnline"
	eventUserOffline  = "userOffline"
	eventNotification = "notification"
)

// envelope is the wire frame in both directions: {"event": ..., "data": ...}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Identity is the user record a connection presents when it joins. It is
// taken at face value; the session layer upstream of the socket is the trust
// boundary.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Message is a transient chat payload. Exactly one of RecipientID,
// WorkOrderID, InvoiceID or CustomerID is set for routed variants;
// none for a general broadcast.
type Message struct {
	Text        string `json:"text"`
	SenderID    string `json:"senderId"`
	SenderName  string `json:"senderName"`
	RecipientID string `json:"recipientId,omitempty"`
	WorkOrderID string `json:"workOrderId,omitempty"`
	InvoiceID   string `json:"invoiceId,omitempty"`
	CustomerID  string `json:"customerId,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// TypingIndicator signals that a user started or stopped typing in a context.
type TypingIndicator struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Context   string `json:"context"`
	ContextID string `json:"contextId,omitempty"`
}

// PresenceEvent is the payload of userOnline/userOffline.
type PresenceEvent struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

// Notification is a one-shot domain event pushed by the application layer.
type Notification struct {
	Type            string `json:"type"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	Timestamp       string `json:"timestamp"`
	WorkOrderID     string `json:"workOrderId,omitempty"`
	WorkOrderNumber string `json:"workOrderNumber,omitempty"`
}

// inboundEvent is the closed set of decoded client events. The legacy "join"
// event carries either a bare room name or an identity object; decoding
// resolves the ambiguity into subscribeToRoom / establishIdentity.
type inboundEvent interface {
	isInbound()
}

type establishIdentity struct {
	Identity Identity
}

type subscribeToRoom struct {
	Room string
}

type unsubscribeFromRoom struct {
	Room string
}

type broadcastMessage struct {
	Message Message
}

type privateMessage struct {
	Message Message
}

// contextMessage covers workOrderMessage/invoiceMessage/customerMessage.
type contextMessage struct {
	Event     string
	Context   string
	ContextID string
	Message   Message
}

type typingEvent struct {
	Event     string
	Indicator TypingIndicator
}

func (establishIdentity) isInbound()   {}
func (subscribeToRoom) isInbound()     {}
func (unsubscribeFromRoom) isInbound() {}
func (broadcastMessage) isInbound()    {}
func (privateMessage) isInbound()      {}
func (contextMessage) isInbound()      {}
func (typingEvent) isInbound()         {}

var errUnknownEvent = errors.New("unknown event")

// decodeInbound parses a raw frame into one of the inbound variants.
func decodeInbound(raw []byte) (inboundEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if env.Event == "" {
		return nil, errors.New("frame has no event name")
	}

	switch env.Event {
	case eventJoin:
		// String payload means an ad hoc room subscription, object payload a
		// full identity join.
		var room string
		if err := json.Unmarshal(env.Data, &room); err == nil {
			return subscribeToRoom{Room: room}, nil
		}
		var identity Identity
		if err := json.Unmarshal(env.Data, &identity); err != nil {
			return nil, fmt.Errorf("malformed join payload: %w", err)
		}
		if identity.UserID == "" {
			return nil, errors.New("join identity has no userId")
		}
		return establishIdentity{Identity: identity}, nil

	case eventJoinRoom, eventLeaveRoom:
		var room string
		if err := json.Unmarshal(env.Data, &room); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if room == "" {
			return nil, fmt.Errorf("%s has no room name", env.Event)
		}
		if env.Event == eventLeaveRoom {
			return unsubscribeFromRoom{Room: room}, nil
		}
		return subscribeToRoom{Room: room}, nil

	case eventBroadcastMessage, eventPrivateMessage,
		eventWorkOrderMessage, eventInvoiceMessage, eventCustomerMessage:
		var msg Message
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if msg.Text == "" {
			return nil, fmt.Errorf("%s has no text", env.Event)
		}
		switch env.Event {
		case eventBroadcastMessage:
			return broadcastMessage{Message: msg}, nil
		case eventPrivateMessage:
			if msg.RecipientID == "" {
				return nil, errors.New("privateMessage has no recipientId")
			}
			return privateMessage{Message: msg}, nil
		case eventWorkOrderMessage:
			if msg.WorkOrderID == "" {
				return nil, errors.New("workOrderMessage has no workOrderId")
			}
			return contextMessage{Event: env.Event, Context: ContextWorkOrder, ContextID: msg.WorkOrderID, Message: msg}, nil
		case eventInvoiceMessage:
			if msg.InvoiceID == "" {
				return nil, errors.New("invoiceMessage has no invoiceId")
			}
			return contextMessage{Event: env.Event, Context: ContextInvoice, ContextID: msg.InvoiceID, Message: msg}, nil
		default:
			if msg.CustomerID == "" {
				return nil, errors.New("customerMessage has no customerId")
			}
			return contextMessage{Event: env.Event, Context: ContextCustomer, ContextID: msg.CustomerID, Message: msg}, nil
		}

	case eventTyping, eventStopTyping:
		var indicator TypingIndicator
		if err := json.Unmarshal(env.Data, &indicator); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return typingEvent{Event: env.Event, Indicator: indicator}, nil

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownEvent, env.Event)
	}
}

// marshalEvent builds an outbound frame.
func marshalEvent(event string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	return json.Marshal(envelope{Event: event, Data: payload})
}
