package validators

import (
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_number",
			"room_type",
			"price",
			"position",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"room_number": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"room_type": bson.M{
				"bsonType": "string",
				"enum":     roomTypeNames(),
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"position": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
		},
	},
}

func roomTypeNames() []string {
	types := model.RoomTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return names
}
