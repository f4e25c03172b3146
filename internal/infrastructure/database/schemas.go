package database

import "github.com/oksasatya/bootcamp-directory/internal/domain/query"

// Query schemas map the public JSON field names accepted by list endpoints
// onto columns. Anything not listed cannot be filtered, sorted or selected.

var userSchema = query.Schema{
	Fields: map[string]query.Field{
		"id":        {Column: "id"},
		"name":      {Column: "name"},
		"email":     {Column: "email"},
		"role":      {Column: "role"},
		"createdAt": {Column: "created_at", Kind: query.KindTime},
	},
	Always: []string{"id"},
	Hidden: []string{"password", "reset_password_token", "reset_password_expire"},
}

var bootcampSchema = query.Schema{
	Fields: map[string]query.Field{
		"id":            {Column: "id"},
		"user":          {Column: "user_id"},
		"name":          {Column: "name"},
		"slug":          {Column: "slug"},
		"description":   {Column: "description"},
		"website":       {Column: "website"},
		"phone":         {Column: "phone"},
		"email":         {Column: "email"},
		"address":       {Column: "address"},
		"careers":       {Column: "careers", Kind: query.KindList},
		"averageRating": {Column: "average_rating", Kind: query.KindNumber},
		"averageCost":   {Column: "average_cost", Kind: query.KindNumber},
		"photo":         {Column: "photo"},
		"housing":       {Column: "housing", Kind: query.KindBool},
		"jobAssistance": {Column: "job_assistance", Kind: query.KindBool},
		"jobGuarantee":  {Column: "job_guarantee", Kind: query.KindBool},
		"acceptGi":      {Column: "accept_gi", Kind: query.KindBool},
		"createdAt":     {Column: "created_at", Kind: query.KindTime},
		"location": {Columns: []string{
			"location_latitude", "location_longitude", "location_formatted_address",
			"location_street", "location_city", "location_state", "location_zipcode", "location_country",
		}},
		"location.latitude":  {Column: "location_latitude", Kind: query.KindNumber},
		"location.longitude": {Column: "location_longitude", Kind: query.KindNumber},
		"location.city":      {Column: "location_city"},
		"location.state":     {Column: "location_state"},
		"location.zipcode":   {Column: "location_zipcode"},
		"location.country":   {Column: "location_country"},
	},
	Always: []string{"id"},
}

var courseSchema = query.Schema{
	Fields: map[string]query.Field{
		"id":                   {Column: "id"},
		"title":                {Column: "title"},
		"description":          {Column: "description"},
		"weeks":                {Column: "weeks", Kind: query.KindNumber},
		"tuition":              {Column: "tuition", Kind: query.KindNumber},
		"minimumSkill":         {Column: "minimum_skill"},
		"scholarshipAvailable": {Column: "scholarship_available", Kind: query.KindBool},
		"createdAt":            {Column: "created_at", Kind: query.KindTime},
		"bootcamp":             {Column: "bootcamp_id"},
		"user":                 {Column: "user_id"},
	},
	Always: []string{"id", "bootcamp_id"},
}
