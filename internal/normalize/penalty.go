package normalize

import "strings"

// penaltyRules normalize free-text infraction phrases to a closed vocabulary.
// The list is ordered and the first matching substring wins: source wording
// varies ("Hi-sticking", "High-sticking", "Hi stick"), so exact equality is
// useless here. More specific phrases come before their prefixes.
var penaltyRules = []struct {
	substr string
	reason string
}{
	{"TOO MANY MEN", "Too many men on the ice"},
	{"INTERFERENCE - GOALKEEPER", "Goalkeeper interference"},
	{"GOALKEEPER INTERFERENCE", "Goalkeeper interference"},
	{"HOLDING THE STICK", "Holding the stick"},
	{"HOLDING STICK", "Holding the stick"},
	{"CROSS CHECK", "Cross-checking"},
	{"CROSS-CHECK", "Cross-checking"},
	{"HI-STICK", "High-sticking"},
	{"HIGH-STICK", "High-sticking"},
	{"HIGH STICK", "High-sticking"},
	{"DELAY", "Delay of game"},
	{"INSTIGATOR", "Instigator"},
	{"MISCONDUCT", "Misconduct"},
	{"UNSPORTSMANLIKE", "Unsportsmanlike conduct"},
	{"EMBELLISHMENT", "Embellishment"},
	{"DIVING", "Embellishment"},
	{"HOOKING", "Hooking"},
	{"TRIPPING", "Tripping"},
	{"TRIP", "Tripping"},
	{"SLASHING", "Slashing"},
	{"SLASH", "Slashing"},
	{"INTERFERENCE", "Interference"},
	{"HOLDING", "Holding"},
	{"ROUGHING", "Roughing"},
	{"BOARDING", "Boarding"},
	{"CHARGING", "Charging"},
	{"ELBOWING", "Elbowing"},
	{"KNEEING", "Kneeing"},
	{"CLIPPING", "Clipping"},
	{"FIGHTING", "Fighting"},
	{"FIGHT", "Fighting"},
	{"SPEARING", "Spearing"},
	{"BUTT-END", "Butt-ending"},
	{"HEAD-BUTT", "Head-butting"},
	{"CLOSING HAND ON PUCK", "Closing hand on puck"},
	{"ILLEGAL CHECK TO HEAD", "Illegal check to the head"},
	{"CHECK TO THE HEAD", "Illegal check to the head"},
	{"CHECKING FROM BEHIND", "Checking from behind"},
	{"ABUSE OF OFFICIALS", "Abuse of officials"},
	{"ABUSIVE LANGUAGE", "Abuse of officials"},
	{"LEAVING THE CREASE", "Leaving the crease"},
	{"BROKEN STICK", "Playing with a broken stick"},
	{"THROWING", "Throwing equipment"},
	{"BENCH", "Bench minor"},
}

// NormalizePenaltyReason maps a description or descKey onto the closed
// penalty vocabulary. Unmatched text falls back to "Minor".
func NormalizePenaltyReason(text string) string {
	upper := strings.ToUpper(text)
	for _, r := range penaltyRules {
		if strings.Contains(upper, r.substr) {
			return r.reason
		}
	}
	return "Minor"
}
