package catalog

// GridWidth is the width (and height) of the square game board.
const GridWidth = 4

// DefaultBoardLayout returns the fixed board layout, row-major.
func DefaultBoardLayout() []TileType {
	return []TileType{
		TileForest, TileFarm, TileEmpty, TileForest,
		TileForest, TileHome, TileOffice, TileEmpty,
		TileEmpty, TileEmpty, TilePower, TileLake,
		TileEmpty, TileFactory, TileForest, TileForest,
	}
}
