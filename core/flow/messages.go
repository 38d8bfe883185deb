package flow

// User-facing strings preserved from the original deployment (Tajik).
const (
	msgChooseState      = "Салом! Штатро интихоб кунед:"
	msgChooseRestaurant = "Ресторанро интихоб кунед:"
	msgChooseDish       = "Таомро интихоб кунед:"
	msgRatePrompt       = "Баҳо диҳед (1-5 ⭐):"
	msgNotUnderstood    = "Фаҳмида нашуд. /start -ро пахш кунед."
	msgNotFound         = "Ресторан ёфт нашуд. /start -ро пахш кунед."
	msgNoLocation       = "Барои ин ресторан геолокация нест."
	msgInvalidRating    = "Баҳои нодуруст. Аз 1 то 5 интихоб кунед."
	msgRatingSaveFailed = "Баҳо сабт нашуд, баъдтар боз кӯшиш кунед."

	labelMenu     = "📋 Меню"
	labelLocation = "📍 Геолокация"
	labelOrder    = "🛒 Фармоиш"
	labelRating   = "⭐ Рейтинг диҳед"
)
