package memstore

import (
	bookingRepo "gymbook/database/repository/booking"
	slotRepo "gymbook/database/repository/slot"
	subscriptionRepo "gymbook/database/repository/subscription"
	templateRepo "gymbook/database/repository/template"
	userRepo "gymbook/database/repository/user"
)

var (
	_ templateRepo.TemplateRepository         = (*Templates)(nil)
	_ slotRepo.SlotRepository                 = (*Slots)(nil)
	_ bookingRepo.BookingRepository           = (*Bookings)(nil)
	_ subscriptionRepo.SubscriptionRepository = (*Subscriptions)(nil)
	_ userRepo.UserRepository                 = (*Users)(nil)
)
