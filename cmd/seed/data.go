package main

import "github.com/oksasatya/bootcamp-directory/internal/application"

type sampleBootcamp struct {
	bootcamp application.BootcampInput
	courses  []application.CourseInput
}

var sampleBootcamps = []sampleBootcamp{
	{
		bootcamp: application.BootcampInput{
			Name:          "Devworks Bootcamp",
			Description:   "Devworks is a full stack JavaScript Bootcamp located in the heart of Boston that focuses on the technologies you need to get a high paying job as a web developer",
			Website:       "https://devworks.com",
			Phone:         "(111) 111-1111",
			Email:         "enroll@devworks.com",
			Address:       "233 Bay State Rd Boston MA 02215",
			Careers:       []string{"Web Development", "UI/UX", "Business"},
			Housing:       true,
			JobAssistance: true,
			JobGuarantee:  false,
			AcceptGi:      true,
		},
		courses: []application.CourseInput{
			{Title: "Front End Web Development", Description: "This course will provide you with all of the essentials to become a successful frontend web developer.", Weeks: 8, Tuition: 8000, MinimumSkill: "beginner", ScholarshipAvailable: true},
			{Title: "Full Stack Web Development", Description: "In this course you will learn full stack web development, first learning all about the frontend with HTML/CSS/JS/Vue and then the backend with Node.js/Express/MongoDB", Weeks: 12, Tuition: 10000, MinimumSkill: "intermediate"},
		},
	},
	{
		bootcamp: application.BootcampInput{
			Name:          "ModernTech Bootcamp",
			Description:   "ModernTech has one goal, and that is to make you a rockstar developer and/or designer with a six figure salary.",
			Website:       "https://moderntech.com",
			Phone:         "(222) 222-2222",
			Email:         "enroll@moderntech.com",
			Address:       "220 Pawtucket St, Lowell, MA 01854",
			Careers:       []string{"Web Development", "UI/UX", "Mobile Development"},
			Housing:       false,
			JobAssistance: true,
			JobGuarantee:  false,
			AcceptGi:      true,
		},
		courses: []application.CourseInput{
			{Title: "Web Design & Development", Description: "Get started building websites and web apps with HTML/CSS/JavaScript/PHP. We teach you", Weeks: 10, Tuition: 12000, MinimumSkill: "beginner"},
			{Title: "Mobile Development", Description: "This course will teach you how to build mobile apps for Android and iOS", Weeks: 12, Tuition: 10000, MinimumSkill: "intermediate", ScholarshipAvailable: true},
		},
	},
	{
		bootcamp: application.BootcampInput{
			Name:          "Codemasters",
			Description:   "Is coding your passion? Codemasters will give you the skills and the tools to become the best developer possible.",
			Website:       "https://codemasters.com",
			Phone:         "(333) 333-3333",
			Email:         "enroll@codemasters.com",
			Address:       "85 South Prospect Street Burlington VT 05405",
			Careers:       []string{"Web Development", "Data Science", "Business"},
			Housing:       false,
			JobAssistance: false,
			JobGuarantee:  false,
			AcceptGi:      false,
		},
		courses: []application.CourseInput{
			{Title: "Data Science Program", Description: "In this course you will learn Python for data science, machine learning and data visualization", Weeks: 10, Tuition: 12000, MinimumSkill: "beginner"},
		},
	},
}
