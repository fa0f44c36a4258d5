package content

// Default returns the built-in content tree used when the remote document is
// absent or malformed. It carries the same shapes the editor special-cases:
// a keyed "projects" map and an ordered "services" list.
func Default() Node {
	return Map(map[string]Node{
		"hero": Map(map[string]Node{
			"title":    String("Hi, I build things for the web."),
			"subtitle": String("Full-stack developer and designer."),
			"cta":      String("Get in touch"),
		}),
		"about": Map(map[string]Node{
			"heading": String("About me"),
			"body":    String("I design and build web applications, from concept to deployment."),
		}),
		"services": List([]Node{
			Map(map[string]Node{
				"title":       String("Web development"),
				"description": String("Responsive, accessible sites built with modern tooling."),
			}),
			Map(map[string]Node{
				"title":       String("Design"),
				"description": String("Interfaces, identities and everything in between."),
			}),
		}),
		"projects": Map(map[string]Node{
			"portfolio": Map(map[string]Node{
				"title":       String("This site"),
				"description": String("Portfolio with an embedded content editor."),
				"url":         String("https://example.com"),
				"tags":        List([]Node{String("go"), String("mongodb")}),
			}),
		}),
		"contact": Map(map[string]Node{
			"heading":      String("Say hello"),
			"nameLabel":    String("Name"),
			"emailLabel":   String("Email"),
			"messageLabel": String("Message"),
			"sendLabel":    String("Send"),
		}),
	})
}
