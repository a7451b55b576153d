package email

const (
	subjectRequestReceivedFmt  = "Vi har tagit emot din förfrågan %s"
	subjectProposalFmt         = "Offert %s från %s"
	subjectApprovalFmt         = "Tack för ditt godkännande av offert %s"
	subjectCancellationFmt     = "Offert %s har annullerats"
	subjectBookingFmt          = "Bokningsbekräftelse %s"
	subjectProposalReminderFmt = "Påminnelse: offert %s väntar på svar"
)
