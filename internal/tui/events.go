package tui

import (
	"github.com/matheus3301/sentinel/internal/bus"
	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/routes"
	"go.uber.org/zap"
)

// watchEvents applies bus events on the UI goroutine.
func (a *App) watchEvents() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case evt, ok := <-a.events:
			if !ok {
				return
			}
			a.app.QueueUpdateDraw(func() { a.handleEvent(evt) })
		}
	}
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.SessionChanged:
		change, ok := evt.Payload.(gate.Change)
		if !ok {
			return
		}
		a.sessionChanged(change)
	case bus.SessionInvalidated:
		// Arrives ahead of the session change, while the private page is
		// still showing.
		if r, ok := routes.Lookup(a.pages.Current()); ok && r.Access == routes.Private {
			a.flash.Warn(a.l.T(i18n.ErrSession))
		}
	case bus.QueryInvalidated:
		if prefix, ok := evt.Payload.(string); ok && a.reloadKey(prefix) {
			a.reload(false)
		}
	case bus.MessageSent:
		a.render()
	case bus.MessageSendFailed:
		a.flash.Warn(deliveryText(evt.Payload, a.l.T(i18n.SendFailed)))
		a.render()
	case bus.ChatUpdateFailed:
		a.flash.Warn(a.l.T(i18n.ChatUpdateFailed))
	}
}

// sessionChanged moves the UI to where the new session state belongs.
func (a *App) sessionChanged(c gate.Change) {
	a.log.Info("session changed", zap.String("from", string(c.From)), zap.String("to", string(c.To)))
	switch c.To {
	case gate.Anonymous:
		a.vm.Reset()
		a.room.SetChat("", "")
		a.chats.SetFilter("")
		target := routes.Login
		if c.From == gate.Loading && a.pending != "" {
			target = a.pending
		}
		a.pending = ""
		a.navigate(target)
	case gate.Authenticated:
		go func() {
			if err := a.vm.Prefetch(a.ctx); err != nil && a.ctx.Err() == nil {
				a.log.Warn("prefetch", zap.Error(err))
			}
		}()
		target := a.pending
		a.pending = ""
		if target == "" {
			target = routes.Chats
		}
		a.navigate(target)
	}
	a.updateChrome()
}

// deliveryText is the flash line for a failed delivery.
func deliveryText(payload any, prefix string) string {
	if d, ok := payload.(bus.Delivery); ok && d.Err != "" {
		return prefix + ": " + d.Err
	}
	return prefix
}
