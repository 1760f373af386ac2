package framework

// Priority constants determine the order in which signatures are checked.
// Higher priority definitions are evaluated first; earlier entries shadow
// later ones when a file matches both.
//
// Use increments of 50 to allow for future insertions between priority levels.
const (
	PriorityExpress    = 700
	PriorityDjango     = 650
	PrioritySpringBoot = 600
	PriorityRails      = 550
	PriorityLaravel    = 500
	PriorityNestJS     = 450
	PriorityFlask      = 400
	PrioritySinatra    = 350
	PriorityVue        = 300
	PriorityAngular    = 250
	PriorityReact      = 200
	PriorityNodeKoa    = 150
	PrioritySymfony    = 100
	PriorityPhoenix    = 50
)

// Framework labels as constants to ensure consistency.
const (
	FrameworkAngular    = "angular"
	FrameworkDjango     = "django"
	FrameworkExpress    = "express"
	FrameworkFlask      = "flask"
	FrameworkLaravel    = "laravel"
	FrameworkNestJS     = "nestjs"
	FrameworkNodeKoa    = "node-koa"
	FrameworkPhoenix    = "phoenix"
	FrameworkRails      = "rails"
	FrameworkReact      = "react"
	FrameworkSinatra    = "sinatra"
	FrameworkSpringBoot = "spring-boot"
	FrameworkSymfony    = "symfony"
	FrameworkUnknown    = "unknown"
	FrameworkVue        = "vue"
)
