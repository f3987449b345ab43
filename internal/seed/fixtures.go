package seed

import "github.com/louisbranch/gameshow/internal/scoreboard/storage"

// Questions is a small starter board. Hosts usually replace it with their own
// material before game night.
var Questions = []storage.QuestionRecord{
	{ID: "q-movies-100", Category: "Movies", Value: 100, Question: "This 1993 film brought dinosaurs back with frog DNA", Answer: "What is Jurassic Park?"},
	{ID: "q-movies-200", Category: "Movies", Value: 200, Question: "The ship that was unsinkable, until it wasn't", Answer: "What is the Titanic?"},
	{ID: "q-movies-300", Category: "Movies", Value: 300, Question: "This wizard tells the Balrog it shall not pass", Answer: "Who is Gandalf?"},
	{ID: "q-music-100", Category: "Music", Value: 100, Question: "This band sang about a Yellow Submarine", Answer: "Who are The Beatles?"},
	{ID: "q-music-200", Category: "Music", Value: 200, Question: "The King of Pop", Answer: "Who is Michael Jackson?"},
	{ID: "q-music-300", Category: "Music", Value: 300, Question: "Bohemian Rhapsody is this band's six-minute epic", Answer: "Who are Queen?"},
	{ID: "q-science-100", Category: "Science", Value: 100, Question: "The chemical symbol for gold", Answer: "What is Au?"},
	{ID: "q-science-200", Category: "Science", Value: 200, Question: "The planet known for its rings", Answer: "What is Saturn?"},
	{ID: "q-science-300", Category: "Science", Value: 300, Question: "The speed of this is about 299,792 km per second", Answer: "What is light?"},
}

// Rounds are the family-feud survey questions.
var Rounds = []storage.FeudRoundRecord{
	{ID: "r-morning", Question: "Name something people do first thing in the morning"},
	{ID: "r-fridge", Question: "Name something you always find in a fridge"},
	{ID: "r-beach", Question: "Name something you bring to the beach"},
}

// Answers are the survey boards behind the rounds, points descending.
var Answers = []storage.FeudAnswerRecord{
	{ID: "a-morning-1", RoundID: "r-morning", Answer: "Check their phone", Points: 40},
	{ID: "a-morning-2", RoundID: "r-morning", Answer: "Brush teeth", Points: 25},
	{ID: "a-morning-3", RoundID: "r-morning", Answer: "Make coffee", Points: 20},
	{ID: "a-morning-4", RoundID: "r-morning", Answer: "Hit snooze", Points: 15},
	{ID: "a-fridge-1", RoundID: "r-fridge", Answer: "Milk", Points: 35},
	{ID: "a-fridge-2", RoundID: "r-fridge", Answer: "Eggs", Points: 30},
	{ID: "a-fridge-3", RoundID: "r-fridge", Answer: "Leftovers", Points: 20},
	{ID: "a-fridge-4", RoundID: "r-fridge", Answer: "Condiments", Points: 15},
	{ID: "a-beach-1", RoundID: "r-beach", Answer: "Sunscreen", Points: 40},
	{ID: "a-beach-2", RoundID: "r-beach", Answer: "Towel", Points: 30},
	{ID: "a-beach-3", RoundID: "r-beach", Answer: "Umbrella", Points: 18},
	{ID: "a-beach-4", RoundID: "r-beach", Answer: "Cooler", Points: 12},
}

// SideQuests are the secret personal missions.
var SideQuests = []storage.SideQuestRecord{
	{ID: "sq-toast", Prompt: "Give a heartfelt toast to a player on another team", Points: 50},
	{ID: "sq-accent", Prompt: "Answer one question in an accent without breaking", Points: 40},
	{ID: "sq-photo", Prompt: "Get a group photo where everyone is jumping", Points: 60},
	{ID: "sq-hum", Prompt: "Get someone else to hum a song you started", Points: 30},
	{ID: "sq-trade", Prompt: "Trade an item of clothing with another player", Points: 70},
	{ID: "sq-nickname", Prompt: "Get the whole room to use your new nickname", Points: 80},
	{ID: "sq-dance", Prompt: "Start a dance move that two people copy", Points: 55},
	{ID: "sq-story", Prompt: "Work the phrase 'like my grandmother always said' into three conversations", Points: 45},
}
