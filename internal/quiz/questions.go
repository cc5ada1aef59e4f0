package quiz

// Question is one entry of the friendship test. Option labels are opaque
// tokens: the emoji prefix is part of the stored answer.
type Question struct {
	Prompt  string
	Options []string
}

var questions = []Question{
	{
		Prompt:  "🎨 What's my favorite color?",
		Options: []string{"❤️ Red", "💙 Blue", "💚 Green", "🤍 White"},
	},
	{
		Prompt:  "🌺 What's my favorite season?",
		Options: []string{"🌸 Spring", "☀️ Summer", "🍁 Autumn", "❄️ Winter"},
	},
	{
		Prompt:  "⏰ What do I like doing in my free time?",
		Options: []string{"📚 Reading", "🏃 Doing sports", "👥 Meeting friends", "🏠 Relaxing at home"},
	},
	{
		Prompt:  "🎬 What kind of movies do I like?",
		Options: []string{"😂 Comedy", "🎭 Drama", "🚀 Sci-fi", "🔍 Mystery"},
	},
	{
		Prompt:  "🍽️ What's my favorite dish?",
		Options: []string{"🍕 Pizza", "🍣 Sushi", "🍜 Ramen", "🍔 Burger"},
	},
}

var numberPrefixes = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// Count returns the number of questions in the bank.
func Count() int {
	return len(questions)
}

// Get returns the question at index i. Panics on an out-of-range index;
// callers are expected to stay within [0, Count()).
func Get(i int) Question {
	return questions[i]
}

// ValidOption reports whether option index opt is in range for question i.
func ValidOption(i, opt int) bool {
	if i < 0 || i >= len(questions) {
		return false
	}
	return opt >= 0 && opt < len(questions[i].Options)
}

// NumberPrefix returns the emoji ordinal shown before question i's prompt.
func NumberPrefix(i int) string {
	if i >= 0 && i < len(numberPrefixes) {
		return numberPrefixes[i]
	}
	return ""
}
