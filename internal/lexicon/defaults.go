package lexicon

// DefaultLists returns a fresh copy of the shipped vocabulary. The lists are
// French, matching the manuscripts the tool was first calibrated on; users
// extend them through Service.
func DefaultLists() Lists {
	return Lists{
		High: []string{
			"mort", "mourir", "meurtre", "tuer", "sang", "cri", "crier", "hurler",
			"hurlement", "peur", "terreur", "panique", "danger", "menace", "arme",
			"couteau", "poignard", "pistolet", "explosion", "feu", "incendie",
			"attaque", "combat", "fuir", "fuite", "piège", "trahison", "cadavre",
			"blessure", "douleur", "désespoir", "horreur", "urgence", "soudain",
			"brutalement", "effroi", "agonie", "massacre", "otage", "poursuite",
		},
		Medium: []string{
			"inquiet", "inquiétude", "doute", "secret", "soupçon", "mystère",
			"étrange", "ombre", "silence", "hésiter", "nerveux", "colère",
			"dispute", "conflit", "mensonge", "menteur", "tension", "méfiance",
			"angoisse", "frisson", "obscurité", "disparu", "disparition",
			"rival", "enquête", "indice", "avertissement", "risque", "urgent",
			"pressentiment",
		},
		Low: []string{
			"calme", "paix", "paisible", "repos", "sourire", "sourit", "rire",
			"doux", "douceur", "tranquille", "sérénité", "serein", "dormir",
			"détendu", "confortable", "thé", "café", "soleil", "jardin",
			"tendresse", "câlin", "promenade", "vacances", "apaisé", "lent",
		},
	}
}
