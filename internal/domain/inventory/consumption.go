package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// QuantityScale decimales con que se guardan cantidades y costos (NUMERIC(14,4)).
const QuantityScale = 4

// ResolutionKind distingue de dónde salió el consumo de un producto.
type ResolutionKind int

const (
	// NoRuleConfigured: el producto no tiene reglas activas ni receta legada.
	NoRuleConfigured ResolutionKind = iota
	// Resolved: se usaron reglas de consumo (puede no haber instrucciones si ninguna variante coincide).
	Resolved
	// ResolvedLegacy: se usó la receta legada del producto.
	ResolvedLegacy
)

func (k ResolutionKind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case ResolvedLegacy:
		return "resolved_legacy"
	default:
		return "no_rule_configured"
	}
}

// Deduction instrucción de descuento sobre un insumo. Quantity es positiva;
// el ledger la registra con signo negativo.
type Deduction struct {
	MaterialID int64
	Type       string // entity.TransactionTypeSale o entity.TransactionTypeWaste
	Quantity   decimal.Decimal
	Unit       string
	RuleID     int64 // 0 si proviene de receta legada
	RecipeID   int64
}

// Resolution resultado etiquetado de resolver el consumo de una línea.
type Resolution struct {
	Kind         ResolutionKind
	ProductID    int64
	Instructions []Deduction
}

// Total suma las cantidades de todas las instrucciones para un insumo.
func (r Resolution) Total(materialID int64) decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Instructions {
		if d.MaterialID == materialID {
			total = total.Add(d.Quantity)
		}
	}
	return total
}

// ResolveConsumption calcula el consumo de soldQty unidades de un producto.
//
//	base  = regla.Quantity * soldQty
//	merma = base * regla.WasteFactor
//	total = base + merma
//
// Cada regla aplicable produce una instrucción "sale" con la base y, si la merma es positiva,
// otra "waste" aparte. Sin reglas activas se usa la receta legada (merma cero).
// rules debe contener solo las reglas del producto; las inactivas se ignoran.
// Las cantidades se redondean a QuantityScale decimales; una merma que redondea a cero se omite.
func ResolveConsumption(productID int64, soldQty decimal.Decimal, selected map[string]string,
	rules []*entity.ConsumptionRule, recipe *entity.LegacyRecipe) Resolution {
	res := Resolution{ProductID: productID}

	active := make([]*entity.ConsumptionRule, 0, len(rules))
	for _, r := range rules {
		if r != nil && r.IsActive && r.ProductID == productID {
			active = append(active, r)
		}
	}

	if len(active) > 0 {
		res.Kind = Resolved
		for _, r := range active {
			if !r.Matches(selected) {
				continue
			}
			base := r.Quantity.Mul(soldQty).Round(QuantityScale)
			if base.GreaterThan(decimal.Zero) {
				res.Instructions = append(res.Instructions, Deduction{
					MaterialID: r.MaterialID,
					Type:       entity.TransactionTypeSale,
					Quantity:   base,
					Unit:       r.Unit,
					RuleID:     r.ID,
				})
			}
			waste := base.Mul(r.WasteFactor).Round(QuantityScale)
			if waste.GreaterThan(decimal.Zero) {
				res.Instructions = append(res.Instructions, Deduction{
					MaterialID: r.MaterialID,
					Type:       entity.TransactionTypeWaste,
					Quantity:   waste,
					Unit:       r.Unit,
					RuleID:     r.ID,
				})
			}
		}
		return res
	}

	if recipe != nil && recipe.ProductID == productID {
		res.Kind = ResolvedLegacy
		total := recipe.Amount.Mul(soldQty).Round(QuantityScale)
		if total.GreaterThan(decimal.Zero) {
			res.Instructions = append(res.Instructions, Deduction{
				MaterialID: recipe.MaterialID,
				Type:       entity.TransactionTypeSale,
				Quantity:   total,
				Unit:       recipe.Unit,
				RecipeID:   recipe.ID,
			})
		}
		return res
	}

	res.Kind = NoRuleConfigured
	return res
}
