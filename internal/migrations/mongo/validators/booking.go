package validators

import "go.mongodb.org/mongo-driver/bson"

const isoDatePattern = `^\d{4}-\d{2}-\d{2}$`

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"guest",
			"room_number",
			"check_in",
			"check_out",
			"position",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"guest": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"room_number": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"room_type": bson.M{
				"bsonType": "string",
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"check_in": bson.M{
				"bsonType": "string",
				"pattern":  isoDatePattern,
			},

			"check_out": bson.M{
				"bsonType": "string",
				"pattern":  isoDatePattern,
			},

			"position": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
		},
	},
}
