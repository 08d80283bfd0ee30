package model

// Product form field names, matching the keys the inventory API expects.
const (
	FieldProductName     = "productName"
	FieldProductCategory = "productCategory"
	FieldProductType     = "productType"
	FieldTotalQuantity   = "totalQuantity"
	FieldProductVolume   = "productVolume"
	FieldPrice           = "price"
)

// OperationAddProduct names the API operation the form submits to.
const OperationAddProduct = "addProduct"

// DigitsOnlyPattern is the price pattern: one or more ASCII digits.
const DigitsOnlyPattern = `^\d+$`

// ProductForm returns the definition of the add-product form.
func ProductForm() FormModel {
	options := make([]Option, 0, len(ratingSpecs))
	for _, rating := range PowerRatings() {
		options = append(options, rating.Option())
	}

	return FormModel{
		OperationID: OperationAddProduct,
		Title:       "Add Product",
		Fields: []Field{
			{
				Name:        FieldProductName,
				Type:        FieldTypeString,
				Label:       "Product Name",
				Placeholder: "Enter Product Name",
				Validations: []ValidationRule{required("Product Name is required")},
			},
			{
				Name:        FieldProductCategory,
				Type:        FieldTypeString,
				Label:       "Product Category",
				Placeholder: "Enter Product Category",
				Validations: []ValidationRule{required("Product Category is required")},
			},
			{
				Name:        FieldProductType,
				Type:        FieldTypeEnum,
				Label:       "Product Type",
				Placeholder: "Product Type",
				Options:     options,
				Validations: []ValidationRule{required("Product Type is required")},
			},
			{
				Name:        FieldTotalQuantity,
				Type:        FieldTypeNumber,
				Label:       "Product Quantity",
				Placeholder: "Enter Product Quantity",
				Validations: []ValidationRule{required("Product Quantity is required")},
			},
			{
				Name:        FieldProductVolume,
				Type:        FieldTypeNumber,
				Label:       "Product Volume",
				Placeholder: "Enter Product Volume",
				Validations: []ValidationRule{required("Product Volume is required")},
			},
			{
				Name:        FieldPrice,
				Type:        FieldTypeNumber,
				Label:       "Cost Price",
				Placeholder: "Enter Cost Price",
				Validations: []ValidationRule{
					required("Cost Price is required"),
					{
						Kind:    ValidationRulePattern,
						Params:  map[string]string{"pattern": DigitsOnlyPattern},
						Message: "Numbers only",
					},
				},
			},
		},
	}
}

func required(message string) ValidationRule {
	return ValidationRule{Kind: ValidationRuleRequired, Message: message}
}
