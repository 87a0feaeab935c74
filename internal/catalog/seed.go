package catalog

import "fmt"

type seedProduct struct {
	name     string
	category string
	price    float64
	platform string
	featured bool
}

// Seed inserts the starter catalog when the products table is empty.
// It returns the number of rows inserted (0 when the table already has data).
func (s *SQLiteStore) Seed() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("catalog store: seed count: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`INSERT INTO products (name, category, price, platform, is_featured) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("catalog store: seed prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range seedProducts {
		if _, err := stmt.Exec(p.name, p.category, p.price, p.platform, boolToInt(p.featured)); err != nil {
			return 0, fmt.Errorf("catalog store: seed %q: %w", p.name, err)
		}
	}
	return len(seedProducts), nil
}

// seedProducts is the starter catalog: at least 100 games with every
// category and platform represented.
var seedProducts = []seedProduct{
	// Featured
	{"The Witcher 3: Wild Hunt", "RPG", 40.0, "PC", true},
	{"Elden Ring", "RPG", 60.0, "PlayStation", true},
	{"Hollow Knight", "Indie", 15.0, "PC", true},
	{"Cyberpunk 2077", "Action", 60.0, "PC", true},
	{"God of War", "Action", 50.0, "PlayStation", true},
	{"Breath of the Wild", "Adventure", 60.0, "Switch", true},
	{"Stardew Valley", "Simulation", 15.0, "Switch", true},
	{"Dark Souls III", "RPG", 60.0, "PC", true},
	{"Red Dead Redemption 2", "Adventure", 60.0, "PlayStation", true},
	{"Portal 2", "Puzzle", 10.0, "PC", true},
	{"Half-Life: Alyx", "Shooter", 60.0, "PC", true},
	{"The Last of Us Part II", "Action", 60.0, "PlayStation", true},
	{"Super Mario Odyssey", "Adventure", 60.0, "Switch", true},
	{"Celeste", "Indie", 20.0, "PC", true},
	{"Hades", "Action", 25.0, "PC", true},

	// Action
	{"Doom Eternal", "Action", 40.0, "PC", false},
	{"Devil May Cry 5", "Action", 40.0, "PlayStation", false},
	{"Assassin's Creed Valhalla", "Action", 60.0, "PC", false},
	{"Monster Hunter: World", "Action", 40.0, "PlayStation", false},
	{"Nier: Automata", "Action", 40.0, "PC", false},
	{"Metal Gear Solid V", "Action", 30.0, "PC", false},
	{"Bayonetta 2", "Action", 60.0, "Switch", false},
	{"Spider-Man", "Action", 50.0, "PlayStation", false},
	{"Tomb Raider", "Action", 20.0, "PC", false},
	{"Uncharted 4", "Action", 40.0, "PlayStation", false},
	{"Just Cause 4", "Action", 40.0, "PC", false},
	{"Dead Cells", "Action", 25.0, "PC", false},
	{"Sekiro: Shadows Die Twice", "Action", 60.0, "PC", false},
	{"Batman: Arkham Knight", "Action", 20.0, "PC", false},
	{"Horizon Zero Dawn", "Action", 40.0, "PlayStation", false},
	{"Resident Evil 4", "Action", 40.0, "PC", false},
	{"Shadow of the Tomb Raider", "Action", 30.0, "PC", false},

	// RPG
	{"Skyrim", "RPG", 20.0, "PC", false},
	{"Final Fantasy VII Remake", "RPG", 60.0, "PlayStation", false},
	{"Persona 5 Royal", "RPG", 60.0, "PlayStation", false},
	{"Divinity: Original Sin 2", "RPG", 45.0, "PC", false},
	{"Pillars of Eternity", "RPG", 30.0, "PC", false},
	{"Baldur's Gate 3", "RPG", 60.0, "PC", false},
	{"Dragon Age: Inquisition", "RPG", 30.0, "PC", false},
	{"Mass Effect Legendary Edition", "RPG", 60.0, "PC", false},
	{"The Outer Worlds", "RPG", 60.0, "PC", false},
	{"Fire Emblem: Three Houses", "RPG", 60.0, "Switch", false},
	{"Octopath Traveler", "RPG", 60.0, "Switch", false},
	{"Xenoblade Chronicles 3", "RPG", 60.0, "Switch", false},
	{"Path of Exile", "RPG", 0.0, "PC", false},
	{"Diablo III", "RPG", 40.0, "PC", false},
	{"Monster Hunter Rise", "RPG", 40.0, "Switch", false},
	{"Genshin Impact", "RPG", 5.0, "Mobile", false},
	{"Pokémon Scarlet", "RPG", 60.0, "Switch", false},
	{"Persona 4 Golden", "RPG", 20.0, "PC", false},

	// Strategy
	{"Civilization VI", "Strategy", 60.0, "PC", false},
	{"Total War: Warhammer III", "Strategy", 60.0, "PC", false},
	{"Age of Empires IV", "Strategy", 60.0, "PC", false},
	{"Crusader Kings III", "Strategy", 50.0, "PC", false},
	{"XCOM 2", "Strategy", 50.0, "PC", false},
	{"Stellaris", "Strategy", 40.0, "PC", false},
	{"Company of Heroes 3", "Strategy", 60.0, "PC", false},
	{"Fire Emblem: Engage", "Strategy", 60.0, "Switch", false},
	{"Into the Breach", "Strategy", 15.0, "PC", false},
	{"Advance Wars 1+2", "Strategy", 60.0, "Switch", false},
	{"Anno 1800", "Strategy", 40.0, "PC", false},
	{"Northgard", "Strategy", 25.0, "PC", false},
	{"Frostpunk", "Strategy", 30.0, "PC", false},
	{"They Are Billions", "Strategy", 25.0, "PC", false},
	{"Desperados III", "Strategy", 40.0, "PC", false},

	// Indie
	{"Cuphead", "Indie", 20.0, "PC", false},
	{"Ori and the Blind Forest", "Indie", 20.0, "PC", false},
	{"Hades", "Indie", 25.0, "Switch", false},
	{"Bastion", "Indie", 15.0, "PC", false},
	{"Transistor", "Indie", 20.0, "PC", false},
	{"Limbo", "Indie", 10.0, "PC", false},
	{"Inside", "Indie", 20.0, "PC", false},
	{"Undertale", "Indie", 10.0, "PC", false},
	{"Among Us", "Indie", 5.0, "Mobile", false},
	{"Fall Guys", "Indie", 20.0, "PC", false},
	{"Valheim", "Indie", 20.0, "PC", false},
	{"Terraria", "Indie", 10.0, "PC", false},
	{"Minecraft", "Indie", 27.0, "PC", false},
	{"Slay the Spire", "Indie", 25.0, "PC", false},
	{"Dead Cells", "Indie", 25.0, "Switch", false},
	{"Gris", "Indie", 17.0, "PC", false},
	{"A Short Hike", "Indie", 8.0, "PC", false},
	{"What Remains of Edith Finch", "Indie", 20.0, "PC", false},

	// Adventure
	{"Life is Strange", "Adventure", 20.0, "PC", false},
	{"The Walking Dead", "Adventure", 25.0, "PC", false},
	{"Gone Home", "Adventure", 15.0, "PC", false},
	{"Firewatch", "Adventure", 20.0, "PC", false},
	{"Outer Wilds", "Adventure", 25.0, "PC", false},
	{"The Talos Principle", "Adventure", 40.0, "PC", false},
	{"Oxenfree", "Adventure", 10.0, "PC", false},
	{"Night in the Woods", "Adventure", 20.0, "PC", false},
	{"Samorost 3", "Adventure", 15.0, "PC", false},
	{"Gorogoa", "Adventure", 15.0, "PC", false},
	{"Kentucky Route Zero", "Adventure", 25.0, "PC", false},
	{"Tacoma", "Adventure", 20.0, "PC", false},
	{"Detroit: Become Human", "Adventure", 40.0, "PlayStation", false},
	{"Heavy Rain", "Adventure", 20.0, "PlayStation", false},
	{"Until Dawn", "Adventure", 20.0, "PlayStation", false},

	// Shooter
	{"Call of Duty: Modern Warfare", "Shooter", 60.0, "PC", false},
	{"Counter-Strike 2", "Shooter", 0.0, "PC", false},
	{"Valorant", "Shooter", 0.0, "PC", false},
	{"Overwatch 2", "Shooter", 0.0, "PC", false},
	{"Apex Legends", "Shooter", 0.0, "PC", false},
	{"PUBG", "Shooter", 30.0, "PC", false},
	{"Destiny 2", "Shooter", 0.0, "PC", false},
	{"Borderlands 3", "Shooter", 60.0, "PC", false},
	{"Titanfall 2", "Shooter", 30.0, "PC", false},
	{"BioShock Infinite", "Shooter", 30.0, "PC", false},
	{"DOOM (2016)", "Shooter", 20.0, "PC", false},
	{"Wolfenstein II", "Shooter", 40.0, "PC", false},
	{"Metro Exodus", "Shooter", 40.0, "PC", false},
	{"S.T.A.L.K.E.R.: Shadow of Chernobyl", "Shooter", 10.0, "PC", false},
	{"Insurgency: Sandstorm", "Shooter", 30.0, "PC", false},

	// Simulation
	{"Cities: Skylines", "Simulation", 30.0, "PC", false},
	{"The Sims 4", "Simulation", 40.0, "PC", false},
	{"Euro Truck Simulator 2", "Simulation", 20.0, "PC", false},
	{"Farming Simulator 22", "Simulation", 40.0, "PC", false},
	{"Planet Zoo", "Simulation", 45.0, "PC", false},
	{"Two Point Hospital", "Simulation", 35.0, "PC", false},
	{"Prison Architect", "Simulation", 30.0, "PC", false},
	{"Kerbal Space Program", "Simulation", 40.0, "PC", false},
	{"Factorio", "Simulation", 30.0, "PC", false},
	{"RimWorld", "Simulation", 35.0, "PC", false},
	{"Dwarf Fortress", "Simulation", 30.0, "PC", false},
	{"Elite Dangerous", "Simulation", 30.0, "PC", false},
	{"Microsoft Flight Simulator", "Simulation", 70.0, "PC", false},
	{"Animal Crossing: New Horizons", "Simulation", 60.0, "Switch", false},
	{"Harvest Moon", "Simulation", 50.0, "Switch", false},
}
