// Package listeners holds the asynchronous consistency handlers: the
// independently-transacted subscribers that bring portfolios, payment
// methods and documents in line with committed settlements. Every
// handler opens its own transaction; none of them can fail a
// settlement that already committed.
package listeners

import (
	"github.com/RobasAhmedShah/hmr-backend/internal/certificates"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"gorm.io/gorm"
)

// Register wires every listener into the bus.
func Register(bus *events.Bus, db *gorm.DB, certs *certificates.Service) {
	p := &portfolioListener{db: db}
	bus.Subscribe(events.InvestmentCompleted, p.onInvestmentCompleted)
	bus.Subscribe(events.RewardDistributed, p.onRewardDistributed)

	d := &documentListener{db: db, certs: certs}
	bus.Subscribe(events.InvestmentCompleted, d.onInvestmentCompleted)

	pm := &paymentMethodListener{db: db}
	bus.Subscribe(events.UserCreated, pm.onUserCreated)
	bus.Subscribe(events.KycVerified, pm.onKycVerified)

	bus.Subscribe(events.Wildcard, auditLog)
}
