package funnel

// User-facing texts of the TONKO funnel.
const (
	msgWelcome = `Hi! I'm TONKO, your personal astrologer.

2026 is already knocking. I can read what it has prepared for you — love, money, and the month everything turns around.

Tap the button below and I'll take a look at your stars.`

	msgAskBirthData = `Send me your date of birth in the format DD.MM.YYYY.

If you know the exact time, add it too, like this: 15.03.1990 08:45. You can also mention the city you were born in.`

	msgRetryBirthData = `Hmm, I couldn't read that as a date.

Please send it as DD.MM.YYYY, for example 15.03.1990 — optionally with a time like 08:45.`

	msgGenerationFailed = `The stars are clouded right now and I couldn't finish your reading. Please try again in a few minutes.`

	msgStoreFailed = `Something went wrong on my side and I couldn't save your data. Please send your birth date once more.`

	msgUpsell = `I have to be honest with you — what I saw in your full 2026 chart is much bigger than the glimpse I sent.

There's a month in there that changes everything, and I'd rather you walk into it prepared.

Unlock the complete forecast and I'll tell you all of it.`

	msgNoRecord = `I don't have your birth data on file, so I can't prepare the full forecast.

Please start over with /start and send me your date of birth again.`

	msgUnknownText = `I read stars, not riddles 😉 Send /start to begin your 2026 forecast.`

	btnGetForecast    = "✨ Get my 2026 forecast"
	btnUnlockForecast = "🔮 Unlock the full forecast — 99 ⭐"
)
