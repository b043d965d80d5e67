// Package sample provides a fixed demo batch of hostel grievances
package sample

import "github.com/rajasatyajit/grievance-insights/internal/models"

var complaints = []string{
	"The wifi has been down for three days, extremely urgent!!",
	"Thanks, the maintenance team fixed my room heater quickly.",
	"Loud music from the next room every night, the noise is terrible.",
	"Mess food is stale again and the dinner tastes bad.",
	"My cycle was stolen near the main gate, please check the CCTV immediately.",
	"The washroom on the second floor is dirty and smelly.",
	"The warden was rude when we asked about the late entry rule.",
	"Water leaking from the ceiling in room 204 since yesterday.",
	"Internet connection keeps dropping during online classes.",
	"Minor suggestion: more books in the common room would be nice.",
	"Sparking switch board in the corridor, this is dangerous!",
	"Garbage has not been collected for a week, cockroaches everywhere.",
	"Great job on the new breakfast menu, really happy with it.",
	"Noise from the party on the terrace kept everyone awake.",
	"The fan in my room is not working, please repair it soon.",
}

// Complaints returns a fresh copy of the demo batch
func Complaints() []models.RawComplaint {
	return models.Texts(complaints...)
}
